package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"strings"
)

// sealedPrefix marks a stored value as sealed. Values without it pass
// through Open unchanged so rows written before a key was configured
// stay readable.
const sealedPrefix = "enc:v1:"

// Cipher seals gateway credentials before they reach storage.
type Cipher interface {
	Seal(plaintext string) (string, error)
	Open(stored string) (string, error)
}

type aesCipher struct {
	key []byte
}

// NewAESCipher creates an AES-256-GCM cipher from a hex-encoded key.
func NewAESCipher(hexKey string) (Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.New("invalid encryption key format")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &aesCipher{key: key}, nil
}

func (c *aesCipher) Seal(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *aesCipher) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}

	sealed, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(sealed) < gcm.NonceSize() {
		return "", errors.New("sealed value too short")
	}

	plaintext, err := gcm.Open(nil, sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():], nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

type noopCipher struct{}

// NewNoopCipher returns a cipher that stores values as-is, used when
// no encryption key is configured.
func NewNoopCipher() Cipher {
	return noopCipher{}
}

func (noopCipher) Seal(plaintext string) (string, error) { return plaintext, nil }
func (noopCipher) Open(stored string) (string, error)    { return stored, nil }

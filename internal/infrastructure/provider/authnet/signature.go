package authnet

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the webhook payload signature, formatted
// "sha512=<upper-hex digest>".
const SignatureHeader = "X-ANET-Signature"

const signaturePrefix = "sha512="

// VerifySignature recomputes HMAC-SHA512 over the raw body with the
// merchant signature key and compares the upper-cased hex digests in
// constant time. A missing header or malformed value fails closed.
func VerifySignature(body []byte, signatureHeader, signatureKey string) bool {
	if signatureHeader == "" || signatureKey == "" {
		return false
	}
	if !strings.HasPrefix(strings.ToLower(signatureHeader), signaturePrefix) {
		return false
	}
	provided := strings.ToUpper(signatureHeader[len(signaturePrefix):])
	if len(provided) != sha512.Size*2 {
		return false
	}

	mac := hmac.New(sha512.New, []byte(signatureKey))
	mac.Write(body)
	expected := strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))

	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

// Sign computes the signature header value for a body and key.
func Sign(body []byte, signatureKey string) string {
	mac := hmac.New(sha512.New, []byte(signatureKey))
	mac.Write(body)
	return signaturePrefix + strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

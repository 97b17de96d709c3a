package btcpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the webhook payload signature. Go's header
// lookup canonicalizes names, so the match is case-insensitive
// regardless of how the sender spells it.
const SignatureHeader = "BTCPay-Sig"

const signaturePrefix = "sha256="

// VerifySignature checks the "sha256=<hex>" signature header against
// HMAC-SHA256 of the raw, unparsed body using the per-webhook secret.
// Anything missing or malformed fails closed.
func VerifySignature(body []byte, signatureHeader, secret string) bool {
	if signatureHeader == "" || secret == "" {
		return false
	}
	if !strings.HasPrefix(signatureHeader, signaturePrefix) {
		return false
	}
	provided, err := hex.DecodeString(strings.TrimPrefix(signatureHeader, signaturePrefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(provided, mac.Sum(nil))
}

// Sign computes the signature header value for a body and secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

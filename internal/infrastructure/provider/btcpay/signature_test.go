package btcpay_test

import (
	"testing"

	"github.com/formworks/payments/internal/infrastructure/provider/btcpay"
	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"InvoiceReceivedPayment","invoiceId":"INV1"}`)
	secret := "whsec_test"

	t.Run("valid signature", func(t *testing.T) {
		header := btcpay.Sign(body, secret)
		assert.True(t, btcpay.VerifySignature(body, header, secret))
	})

	t.Run("tampered body", func(t *testing.T) {
		header := btcpay.Sign(body, secret)
		tampered := []byte(`{"type":"InvoiceReceivedPayment","invoiceId":"INV2"}`)
		assert.False(t, btcpay.VerifySignature(tampered, header, secret))
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := btcpay.Sign(body, "another-secret")
		assert.False(t, btcpay.VerifySignature(body, header, secret))
	})

	t.Run("missing header", func(t *testing.T) {
		assert.False(t, btcpay.VerifySignature(body, "", secret))
	})

	t.Run("missing secret", func(t *testing.T) {
		header := btcpay.Sign(body, secret)
		assert.False(t, btcpay.VerifySignature(body, header, ""))
	})

	t.Run("missing prefix", func(t *testing.T) {
		header := btcpay.Sign(body, secret)
		assert.False(t, btcpay.VerifySignature(body, header[len("sha256="):], secret))
	})

	t.Run("malformed hex", func(t *testing.T) {
		assert.False(t, btcpay.VerifySignature(body, "sha256=not-hex", secret))
	})
}

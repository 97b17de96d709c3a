package errors

import "errors"

var (
	// ErrGatewayNotConfigured indicates the gateway has no complete
	// settings for the active mode.
	ErrGatewayNotConfigured = errors.New("gateway is not configured")

	// ErrSubmissionNotFound indicates the pending submission could not
	// be restored (finalized, expired or unknown).
	ErrSubmissionNotFound = errors.New("pending submission not found")

	// ErrCurrencyNotSupported indicates the submission currency is not
	// accepted by the gateway.
	ErrCurrencyNotSupported = errors.New("currency not supported by gateway")

	// ErrWebhookProvisioning indicates the processor-side webhook could
	// not be created or confirmed.
	ErrWebhookProvisioning = errors.New("cannot provision processor webhook")
)

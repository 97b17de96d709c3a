package entity

// Mode represents the payment environment a gateway is connected to.
type Mode string

const (
	ModeSandbox Mode = "sandbox"
	ModeLive    Mode = "live"
)

// ParseMode returns the Mode for a raw string, or false for anything
// that is not a known environment.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeSandbox:
		return ModeSandbox, true
	case ModeLive:
		return ModeLive, true
	}
	return "", false
}

// WebhookSettings holds the processor-side webhook registration for a mode.
type WebhookSettings struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// ModeSettings is the resolved gateway configuration for the currently
// active environment. A ModeSettings value only exists when every
// required field for the gateway is present; partially filled settings
// resolve to nil.
type ModeSettings struct {
	Mode    Mode
	APIKey  string
	StoreID string
	SiteURL string

	// Webhook is the registered webhook for the crypto gateway.
	Webhook WebhookSettings

	// SignatureKey signs card-gateway webhook payloads.
	SignatureKey string
}

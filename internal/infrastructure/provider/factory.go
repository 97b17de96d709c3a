package provider

import (
	"github.com/formworks/payments/internal/domain/entity"
	"github.com/formworks/payments/internal/domain/provider"
	"github.com/formworks/payments/internal/infrastructure/provider/authnet"
	"github.com/formworks/payments/internal/infrastructure/provider/btcpay"
	"go.uber.org/zap"
)

// Factory builds gateway clients from resolved mode settings. Clients
// are constructed per request because credentials differ between modes
// and can change at runtime through the settings endpoint.
type Factory struct {
	logger *zap.Logger
}

// NewFactory creates a new client factory.
func NewFactory(logger *zap.Logger) *Factory {
	return &Factory{logger: logger}
}

// InvoiceClient returns a crypto invoice client for the mode settings.
func (f *Factory) InvoiceClient(ms *entity.ModeSettings) provider.InvoiceClient {
	return btcpay.NewClient(ms.SiteURL, ms.APIKey, f.logger)
}

// WebhookClient returns a crypto webhook-management client.
func (f *Factory) WebhookClient(ms *entity.ModeSettings) provider.WebhookClient {
	return btcpay.NewClient(ms.SiteURL, ms.APIKey, f.logger)
}

// CardClient returns a card reporting client for the mode settings.
func (f *Factory) CardClient(ms *entity.ModeSettings) provider.CardClient {
	return authnet.NewClient(ms.SiteURL, ms.StoreID, ms.APIKey, f.logger)
}

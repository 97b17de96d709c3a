package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/formworks/payments/internal/domain/entity"
	domainErrors "github.com/formworks/payments/internal/domain/errors"
	"github.com/formworks/payments/internal/domain/provider"
	"github.com/formworks/payments/internal/usecase"
)

func newCheckoutService(settings *MockSettingsRepository, submissions *MockSubmissionStore, entries *MockEntryRepository, invoices *MockInvoiceClient) *usecase.CheckoutService {
	logger := zap.NewNop()
	settingsService := usecase.NewSettingsService(
		settings,
		func(ms *entity.ModeSettings) provider.WebhookClient { return nil },
		"https://forms.example.com",
		logger,
	)
	return usecase.NewCheckoutService(
		logger,
		settingsService,
		submissions,
		entries,
		func(ms *entity.ModeSettings) provider.InvoiceClient { return invoices },
		"https://forms.example.com",
	)
}

func TestCheckoutService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an invoice for the expected charge", func(t *testing.T) {
		settings := new(MockSettingsRepository)
		submissions := new(MockSubmissionStore)
		entries := new(MockEntryRepository)
		invoices := new(MockInvoiceClient)
		service := newCheckoutService(settings, submissions, entries, invoices)

		settings.On("GetAll", ctx, entity.GatewayBTCPay).Return(storedBTCPaySettings(), nil)
		submissions.On("Restore", ctx, "S123").Return(&entity.Submission{ID: "S123", EntryID: 42}, nil)
		entries.On("GetPayments", ctx, int64(42)).Return(&entity.PaymentsMeta{
			Currency: "usd",
			Total:    decimal.RequireFromString("25.00"),
		}, nil)
		invoices.On("CreateInvoice", ctx, "store-1", mock.MatchedBy(func(req *provider.CreateInvoiceRequest) bool {
			return req.Amount.Equal(decimal.RequireFromString("25.00")) &&
				req.Currency == "USD" &&
				req.Metadata["submission_id"] == "S123" &&
				req.RedirectURL == "https://forms.example.com/checkout/return?submission_id=S123"
		})).Return(&provider.Invoice{
			ID:           "INV1",
			Status:       "New",
			CheckoutLink: "https://pay.example.com/i/INV1",
		}, nil)

		invoice, err := service.CreateOrder(ctx, "S123")
		assert.NoError(t, err)
		assert.Equal(t, "INV1", invoice.ID)
		assert.Equal(t, "https://pay.example.com/i/INV1", invoice.CheckoutLink)
		invoices.AssertExpectations(t)
	})

	t.Run("unconfigured gateway", func(t *testing.T) {
		settings := new(MockSettingsRepository)
		submissions := new(MockSubmissionStore)
		entries := new(MockEntryRepository)
		invoices := new(MockInvoiceClient)
		service := newCheckoutService(settings, submissions, entries, invoices)

		settings.On("GetAll", ctx, entity.GatewayBTCPay).Return(map[string]string{}, nil)

		_, err := service.CreateOrder(ctx, "S123")
		assert.ErrorIs(t, err, domainErrors.ErrGatewayNotConfigured)
		submissions.AssertNotCalled(t, "Restore", mock.Anything, mock.Anything)
	})

	t.Run("unknown or expired submission", func(t *testing.T) {
		settings := new(MockSettingsRepository)
		submissions := new(MockSubmissionStore)
		entries := new(MockEntryRepository)
		invoices := new(MockInvoiceClient)
		service := newCheckoutService(settings, submissions, entries, invoices)

		settings.On("GetAll", ctx, entity.GatewayBTCPay).Return(storedBTCPaySettings(), nil)
		submissions.On("Restore", ctx, "S999").Return(nil, nil)

		_, err := service.CreateOrder(ctx, "S999")
		assert.ErrorIs(t, err, domainErrors.ErrSubmissionNotFound)
	})

	t.Run("unsupported currency", func(t *testing.T) {
		settings := new(MockSettingsRepository)
		submissions := new(MockSubmissionStore)
		entries := new(MockEntryRepository)
		invoices := new(MockInvoiceClient)
		service := newCheckoutService(settings, submissions, entries, invoices)

		settings.On("GetAll", ctx, entity.GatewayBTCPay).Return(storedBTCPaySettings(), nil)
		submissions.On("Restore", ctx, "S123").Return(&entity.Submission{ID: "S123", EntryID: 42}, nil)
		entries.On("GetPayments", ctx, int64(42)).Return(&entity.PaymentsMeta{
			Currency: "JPY",
			Total:    decimal.RequireFromString("1000"),
		}, nil)

		_, err := service.CreateOrder(ctx, "S123")
		assert.ErrorIs(t, err, domainErrors.ErrCurrencyNotSupported)
		invoices.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything, mock.Anything)
	})
}

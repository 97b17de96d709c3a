package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	handlers "github.com/formworks/payments/internal/adapter/handler/http"
	"github.com/formworks/payments/internal/domain/entity"
	"github.com/formworks/payments/internal/domain/provider"
	"github.com/formworks/payments/internal/infrastructure/provider/btcpay"
	"github.com/formworks/payments/internal/usecase"
)

const webhookSecret = "whsec-test"

func storedSandboxSettings() map[string]string {
	webhook, _ := json.Marshal(entity.WebhookSettings{ID: "wh-1", Secret: webhookSecret})
	return map[string]string{
		"mode":             "sandbox",
		"sandbox_api_key":  "token",
		"sandbox_store_id": "store-1",
		"sandbox_site_url": "https://pay.example.com",
		"sandbox_webhook":  string(webhook),
	}
}

func newBTCPayHandler(settingsRepo *mockSettingsRepository, entries *mockEntryRepository, submissions *mockSubmissionStore, invoices *mockInvoiceClient) *handlers.BTCPayWebhookHandler {
	logger := zap.NewNop()
	settings := usecase.NewSettingsService(
		settingsRepo,
		func(ms *entity.ModeSettings) provider.WebhookClient { return nil },
		"https://forms.example.com",
		logger,
	)
	settlement := usecase.NewBTCPaySettlement(
		logger,
		entries,
		submissions,
		func(ms *entity.ModeSettings) provider.InvoiceClient { return invoices },
	)
	return handlers.NewBTCPayWebhookHandler(logger, settings, settlement)
}

func deliver(handler *handlers.BTCPayWebhookHandler, target, body, signature string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if signature != "" {
		req.Header.Set(btcpay.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Handle(c)
	return rec
}

func TestBTCPayWebhookHandler(t *testing.T) {
	body := `{"type":"InvoiceSettled","invoiceId":"INV1"}`

	t.Run("unconfigured gateway acknowledges with a notice", func(t *testing.T) {
		settingsRepo := new(mockSettingsRepository)
		settingsRepo.On("GetAll", mock.Anything, entity.GatewayBTCPay).Return(map[string]string{}, nil)
		handler := newBTCPayHandler(settingsRepo, new(mockEntryRepository), new(mockSubmissionStore), new(mockInvoiceClient))

		rec := deliver(handler, "/webhooks/btcpayserver?mode=sandbox", body, btcpay.Sign([]byte(body), webhookSecret))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "BTCPayServer isn't configured!", rec.Body.String())
	})

	t.Run("mode mismatch acknowledges without touching anything", func(t *testing.T) {
		settingsRepo := new(mockSettingsRepository)
		settingsRepo.On("GetAll", mock.Anything, entity.GatewayBTCPay).Return(storedSandboxSettings(), nil)
		entries := new(mockEntryRepository)
		handler := newBTCPayHandler(settingsRepo, entries, new(mockSubmissionStore), new(mockInvoiceClient))

		rec := deliver(handler, "/webhooks/btcpayserver?mode=live", body, btcpay.Sign([]byte(body), webhookSecret))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Unmatched current mode!", rec.Body.String())
		entries.AssertNotCalled(t, "GetByMeta", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad signature acknowledges with the failure notice", func(t *testing.T) {
		settingsRepo := new(mockSettingsRepository)
		settingsRepo.On("GetAll", mock.Anything, entity.GatewayBTCPay).Return(storedSandboxSettings(), nil)
		entries := new(mockEntryRepository)
		handler := newBTCPayHandler(settingsRepo, entries, new(mockSubmissionStore), new(mockInvoiceClient))

		rec := deliver(handler, "/webhooks/btcpayserver?mode=sandbox", body, btcpay.Sign([]byte(body), "wrong-secret"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Webhook verification failed!", rec.Body.String())
		entries.AssertNotCalled(t, "GetByMeta", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing signature header fails verification", func(t *testing.T) {
		settingsRepo := new(mockSettingsRepository)
		settingsRepo.On("GetAll", mock.Anything, entity.GatewayBTCPay).Return(storedSandboxSettings(), nil)
		handler := newBTCPayHandler(settingsRepo, new(mockEntryRepository), new(mockSubmissionStore), new(mockInvoiceClient))

		rec := deliver(handler, "/webhooks/btcpayserver?mode=sandbox", body, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Webhook verification failed!", rec.Body.String())
	})

	t.Run("verified delivery reaches the settlement engine", func(t *testing.T) {
		settingsRepo := new(mockSettingsRepository)
		settingsRepo.On("GetAll", mock.Anything, entity.GatewayBTCPay).Return(storedSandboxSettings(), nil)
		entries := new(mockEntryRepository)
		entries.On("GetByMeta", mock.Anything, "btcpayserver_INV1", "1").Return(nil, nil)
		handler := newBTCPayHandler(settingsRepo, entries, new(mockSubmissionStore), new(mockInvoiceClient))

		rec := deliver(handler, "/webhooks/btcpayserver?mode=sandbox", body, btcpay.Sign([]byte(body), webhookSecret))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		entries.AssertExpectations(t)
	})

	t.Run("unknown event type is acknowledged silently", func(t *testing.T) {
		unknown := `{"type":"InvoiceCreated","invoiceId":"INV1"}`
		settingsRepo := new(mockSettingsRepository)
		settingsRepo.On("GetAll", mock.Anything, entity.GatewayBTCPay).Return(storedSandboxSettings(), nil)
		handler := newBTCPayHandler(settingsRepo, new(mockEntryRepository), new(mockSubmissionStore), new(mockInvoiceClient))

		rec := deliver(handler, "/webhooks/btcpayserver?mode=sandbox", unknown, btcpay.Sign([]byte(unknown), webhookSecret))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

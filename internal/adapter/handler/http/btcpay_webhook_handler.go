package http

import (
	"encoding/json"
	"io"

	"github.com/formworks/payments/internal/domain/entity"
	"github.com/formworks/payments/internal/infrastructure/provider/btcpay"
	"github.com/formworks/payments/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BTCPayWebhookHandler terminates crypto webhook deliveries. The
// stages run in a fixed order — mode gate, signature verification,
// parse, dispatch — and the first stage that produces an Ack ends the
// request.
type BTCPayWebhookHandler struct {
	logger     *zap.Logger
	settings   *usecase.SettingsService
	settlement *usecase.BTCPaySettlement
}

// NewBTCPayWebhookHandler creates a new BTCPayWebhookHandler instance.
func NewBTCPayWebhookHandler(logger *zap.Logger, settings *usecase.SettingsService, settlement *usecase.BTCPaySettlement) *BTCPayWebhookHandler {
	return &BTCPayWebhookHandler{
		logger:     logger,
		settings:   settings,
		settlement: settlement,
	}
}

// Handle processes one webhook delivery. Everything after the
// signature check acknowledges 200 — once a notification is
// authenticated the processor must never re-deliver it, whatever this
// side does with it.
func (h *BTCPayWebhookHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Failed to read webhook body", zap.Error(err))
		return respond(c, usecase.AckOK(""))
	}

	webhookMode := c.QueryParam("mode")

	ms, err := h.settings.ModeSettings(ctx, entity.GatewayBTCPay)
	if err != nil {
		h.logger.Error("Failed to resolve mode settings", zap.Error(err))
		return respond(c, usecase.AckOK(""))
	}
	if ms == nil {
		return respond(c, usecase.AckOK("BTCPayServer isn't configured!"))
	}

	// Environment drift (a stale endpoint still receiving sandbox
	// pings after cutover) is not an error; acknowledge so the sender
	// stops retrying.
	if string(ms.Mode) != webhookMode {
		return respond(c, usecase.AckOK("Unmatched current mode!"))
	}

	// Verification runs on the raw body; parsing first could alter
	// formatting and invalidate the digest.
	signature := c.Request().Header.Get(btcpay.SignatureHeader)
	if !btcpay.VerifySignature(body, signature, ms.Webhook.Secret) {
		h.logger.Warn("Webhook verification failed",
			zap.String("code", "webhook_verification_exception"),
			zap.String("remote_ip", c.RealIP()),
			zap.String("mode", webhookMode))
		return respond(c, usecase.AckOK("Webhook verification failed!"))
	}

	var event usecase.BTCPayEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warn("Failed to parse webhook payload", zap.Error(err))
		return respond(c, usecase.AckOK(""))
	}

	h.logger.Info("Processing webhook event",
		zap.String("type", event.Type),
		zap.String("invoice_id", event.InvoiceID),
		zap.String("mode", webhookMode))

	return respond(c, h.settlement.Handle(ctx, ms, &event))
}

// respond writes an Ack out and ends the request.
func respond(c echo.Context, ack usecase.Ack) error {
	if ack.Body == "" {
		return c.NoContent(ack.Status)
	}
	return c.String(ack.Status, ack.Body)
}

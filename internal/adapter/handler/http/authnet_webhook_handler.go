package http

import (
	"encoding/json"
	"io"

	"github.com/formworks/payments/internal/domain/entity"
	"github.com/formworks/payments/internal/infrastructure/provider/authnet"
	"github.com/formworks/payments/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthNetWebhookHandler terminates card processor notifications. The
// card processor registers one endpoint per mode, so the mode is fixed
// by the route rather than carried in the request.
type AuthNetWebhookHandler struct {
	logger     *zap.Logger
	settings   *usecase.SettingsService
	settlement *usecase.AuthNetSettlement
}

// NewAuthNetWebhookHandler creates a new AuthNetWebhookHandler instance.
func NewAuthNetWebhookHandler(logger *zap.Logger, settings *usecase.SettingsService, settlement *usecase.AuthNetSettlement) *AuthNetWebhookHandler {
	return &AuthNetWebhookHandler{
		logger:     logger,
		settings:   settings,
		settlement: settlement,
	}
}

// HandleSandbox processes deliveries on the sandbox endpoint.
func (h *AuthNetWebhookHandler) HandleSandbox(c echo.Context) error {
	return h.handle(c, entity.ModeSandbox)
}

// HandleLive processes deliveries on the live endpoint.
func (h *AuthNetWebhookHandler) HandleLive(c echo.Context) error {
	return h.handle(c, entity.ModeLive)
}

func (h *AuthNetWebhookHandler) handle(c echo.Context, endpointMode entity.Mode) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Failed to read webhook body", zap.Error(err))
		return respond(c, usecase.AckOK(""))
	}

	ms, err := h.settings.ModeSettings(ctx, entity.GatewayAuthNet)
	if err != nil {
		h.logger.Error("Failed to resolve mode settings", zap.Error(err))
		return respond(c, usecase.AckOK(""))
	}
	if ms == nil || ms.Mode != endpointMode {
		return respond(c, usecase.AckOK(""))
	}

	// The card processor gives no feedback channel for rejected
	// deliveries, so a failed check acknowledges silently and leaves
	// the evidence in the log.
	signature := c.Request().Header.Get(authnet.SignatureHeader)
	if !authnet.VerifySignature(body, signature, ms.SignatureKey) {
		h.logger.Warn("Webhook verification failed",
			zap.String("code", "webhook_verification_exception"),
			zap.String("remote_ip", c.RealIP()),
			zap.String("mode", string(endpointMode)))
		return respond(c, usecase.AckOK(""))
	}

	var event usecase.AuthNetEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warn("Failed to parse webhook payload", zap.Error(err))
		return respond(c, usecase.AckOK(""))
	}

	h.logger.Info("Processing webhook event",
		zap.String("type", event.EventType),
		zap.String("notification_id", event.NotificationID),
		zap.String("mode", string(endpointMode)))

	return respond(c, h.settlement.Handle(ctx, ms, &event))
}

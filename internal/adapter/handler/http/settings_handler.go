package http

import (
	"errors"
	"net/http"

	"github.com/formworks/payments/internal/domain/entity"
	domainerrors "github.com/formworks/payments/internal/domain/errors"
	"github.com/formworks/payments/internal/middleware/auth"
	"github.com/formworks/payments/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SettingsHandler exposes per-gateway configuration to the platform
// admin surface. All routes require an authenticated admin token.
type SettingsHandler struct {
	settings *usecase.SettingsService
	logger   *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(settings *usecase.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		logger:   logger,
	}
}

func gatewayParam(c echo.Context) (string, bool) {
	gateway := c.Param("gateway")
	switch gateway {
	case entity.GatewayBTCPay, entity.GatewayAuthNet:
		return gateway, true
	default:
		return "", false
	}
}

// GetSettings returns the stored configuration for a gateway with
// secrets redacted.
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err // RequireAuth already returns the JSON error response
	}

	gateway, ok := gatewayParam(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Unknown gateway",
		})
	}

	view, err := h.settings.View(c.Request().Context(), gateway)
	if err != nil {
		h.logger.Error("Failed to load gateway settings",
			zap.String("gateway", gateway),
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to load settings",
		})
	}

	return c.JSON(http.StatusOK, view)
}

// UpdateSettings stores new credentials for a gateway mode and, for
// the crypto gateway, provisions the processor-side webhook before
// anything is persisted.
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	gateway, ok := gatewayParam(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Unknown gateway",
		})
	}

	var req usecase.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	h.logger.Info("Updating gateway settings",
		zap.String("gateway", gateway),
		zap.String("mode", req.Mode),
		zap.String("user_id", user.UserID))

	result, err := h.settings.Update(c.Request().Context(), gateway, &req)
	if err != nil {
		if errors.Is(err, domainerrors.ErrWebhookProvisioning) {
			return c.JSON(http.StatusBadGateway, map[string]string{
				"error": "Failed to register webhook with the payment processor",
			})
		}
		h.logger.Error("Failed to update gateway settings",
			zap.String("gateway", gateway),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, result)
}

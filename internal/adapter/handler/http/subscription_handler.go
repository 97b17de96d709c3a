package http

import (
	"net/http"

	"github.com/formworks/payments/internal/domain/entity"
	"github.com/formworks/payments/internal/middleware/auth"
	"github.com/formworks/payments/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SubscriptionHandler records card subscription correlations on behalf
// of the platform.
type SubscriptionHandler struct {
	settlement *usecase.AuthNetSettlement
	logger     *zap.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler instance.
func NewSubscriptionHandler(settlement *usecase.AuthNetSettlement, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		settlement: settlement,
		logger:     logger,
	}
}

type RegisterSubscriptionRequest struct {
	Mode           string `json:"mode" validate:"required,oneof=sandbox live"`
	SubscriptionID string `json:"subscription_id" validate:"required"`
	SubmissionID   string `json:"submission_id" validate:"required"`
}

// RegisterSubscription stores the subscription-to-submission mapping
// the card settlement engine later resolves lifecycle events against.
func (h *SubscriptionHandler) RegisterSubscription(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err // RequireAuth already returns the JSON error response
	}

	var req RegisterSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	mode, _ := entity.ParseMode(req.Mode)

	h.logger.Info("Registering subscription correlation",
		zap.String("subscription_id", req.SubscriptionID),
		zap.String("user_id", user.UserID))

	if err := h.settlement.RegisterSubscription(c.Request().Context(), mode, req.SubscriptionID, req.SubmissionID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to record subscription correlation",
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status": "recorded",
	})
}

package http

import (
	"errors"
	"net/http"

	domainerrors "github.com/formworks/payments/internal/domain/errors"
	"github.com/formworks/payments/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CheckoutHandler starts a hosted crypto checkout for a pending form
// submission.
type CheckoutHandler struct {
	checkout *usecase.CheckoutService
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler instance.
func NewCheckoutHandler(checkout *usecase.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

type CreateOrderRequest struct {
	SubmissionID string `json:"submission_id" validate:"required"`
}

type CreateOrderResponse struct {
	InvoiceID   string `json:"invoice_id"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
}

// CreateOrder creates a processor invoice for a pending submission and
// returns the hosted checkout URL the form frontend redirects to.
func (h *CheckoutHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	h.logger.Info("Creating checkout order",
		zap.String("submission_id", req.SubmissionID))

	invoice, err := h.checkout.CreateOrder(c.Request().Context(), req.SubmissionID)
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrGatewayNotConfigured):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"error": "Payment gateway is not configured",
			})
		case errors.Is(err, domainerrors.ErrSubmissionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Submission not found or expired",
			})
		case errors.Is(err, domainerrors.ErrCurrencyNotSupported):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "Currency is not supported",
			})
		default:
			h.logger.Error("Failed to create checkout order",
				zap.String("submission_id", req.SubmissionID),
				zap.Error(err))
			return c.JSON(http.StatusBadGateway, echo.Map{
				"error": "Failed to create checkout order",
			})
		}
	}

	return c.JSON(http.StatusCreated, CreateOrderResponse{
		InvoiceID:   invoice.ID,
		Status:      invoice.Status,
		CheckoutURL: invoice.CheckoutLink,
	})
}

package btcpay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/formworks/payments/internal/domain/provider"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type invoiceResponse struct {
	ID           string            `json:"id"`
	StoreID      string            `json:"storeId"`
	Amount       decimal.Decimal   `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	CheckoutLink string            `json:"checkoutLink"`
	Metadata     map[string]string `json:"metadata"`
}

func (r *invoiceResponse) toInvoice() *provider.Invoice {
	return &provider.Invoice{
		ID:           r.ID,
		StoreID:      r.StoreID,
		Amount:       r.Amount,
		Currency:     r.Currency,
		Status:       r.Status,
		CheckoutLink: r.CheckoutLink,
		Metadata:     r.Metadata,
	}
}

// CreateInvoice creates an invoice on the store.
// POST /api/v1/stores/{storeId}/invoices
func (c *Client) CreateInvoice(ctx context.Context, storeID string, req *provider.CreateInvoiceRequest) (*provider.Invoice, error) {
	body := map[string]interface{}{
		"amount":   req.Amount.String(),
		"currency": req.Currency,
		"metadata": req.Metadata,
		"checkout": map[string]interface{}{
			"redirectURL": req.RedirectURL,
		},
	}

	var result invoiceResponse
	path := fmt.Sprintf("/stores/%s/invoices", url.PathEscape(storeID))
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}

	c.logger.Info("BTCPay invoice created",
		zap.String("store_id", storeID),
		zap.String("invoice_id", result.ID),
		zap.String("status", result.Status))

	return result.toInvoice(), nil
}

// GetInvoice fetches an invoice's authoritative state by id.
// GET /api/v1/stores/{storeId}/invoices/{invoiceId}
func (c *Client) GetInvoice(ctx context.Context, storeID, invoiceID string) (*provider.Invoice, error) {
	var result invoiceResponse
	path := fmt.Sprintf("/stores/%s/invoices/%s", url.PathEscape(storeID), url.PathEscape(invoiceID))
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.toInvoice(), nil
}

package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

// Invoice is the authoritative state of a crypto invoice as fetched
// from the processor. Webhook payloads are treated as untrusted hints;
// the engine always re-fetches by id before acting on amounts.
type Invoice struct {
	ID           string            `json:"id"`
	StoreID      string            `json:"storeId"`
	Amount       decimal.Decimal   `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	CheckoutLink string            `json:"checkoutLink,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// CreateInvoiceRequest describes a new invoice for a submission.
type CreateInvoiceRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Metadata    map[string]string
	RedirectURL string
}

// Webhook is a processor-side webhook registration.
type Webhook struct {
	ID     string   `json:"id"`
	Secret string   `json:"secret"`
	URL    string   `json:"url"`
	Events []string `json:"events,omitempty"`
}

// InvoiceClient wraps the crypto processor's invoice API.
type InvoiceClient interface {
	CreateInvoice(ctx context.Context, storeID string, req *CreateInvoiceRequest) (*Invoice, error)
	GetInvoice(ctx context.Context, storeID, invoiceID string) (*Invoice, error)
}

// WebhookClient manages processor-side webhook registrations.
type WebhookClient interface {
	// CreateWebhook registers a webhook for the given events. An empty
	// secret lets the processor generate one.
	CreateWebhook(ctx context.Context, storeID, url string, events []string, secret string) (*Webhook, error)
	GetWebhook(ctx context.Context, storeID, webhookID string) (*Webhook, error)
}

// CardTransaction is an authoritative card transaction record.
type CardTransaction struct {
	ID             string
	SubscriptionID string
	Amount         decimal.Decimal
	Currency       string
	Status         string
}

// CardSubscription is an authoritative recurring-billing record.
type CardSubscription struct {
	ID                string
	Status            string
	CustomerProfileID string
}

// CardClient wraps the card processor's reporting API.
type CardClient interface {
	GetTransaction(ctx context.Context, transactionID string) (*CardTransaction, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*CardSubscription, error)

	// ListSubscriptionTransactions returns the transactions charged so
	// far under a subscription, used to seed initial records when the
	// subscription activates.
	ListSubscriptionTransactions(ctx context.Context, subscriptionID string) ([]CardTransaction, error)
}

// ProviderError carries the processor's error code alongside a message.
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

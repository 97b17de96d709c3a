package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gateway slugs and payment methods.
const (
	GatewayBTCPay  = "btcpayserver"
	GatewayAuthNet = "authnet"

	MethodCheckout = "checkout"
	MethodCard     = "card"
)

// MetaPayments and MetaNotes are the entry meta buckets the settlement
// engine reads and mutates. MetaSubmissionID correlates a finalized
// entry back to the submission it was created from.
const (
	MetaPayments     = "payments"
	MetaNotes        = "notes"
	MetaSubmissionID = "submission_id"
)

// LookupMarkerKey builds the synthetic meta key used as a secondary
// index for locating an entry by an external transaction, invoice or
// subscription id. The storage layer only supports lookup by a single
// meta key/value pair, so one boolean marker is written per id.
func LookupMarkerKey(gateway, id string) string {
	return gateway + "_" + id
}

// Entry is a finalized form submission owned by the entries subsystem.
// The settlement engine never creates or deletes entries; it only
// mutates their named meta buckets.
type Entry struct {
	ID        int64
	FormID    int64
	CreatedAt time.Time
}

// TransactionRecord is one payment transaction on an entry. Amount and
// currency are fixed at creation; only Status transitions afterwards.
type TransactionRecord struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Status   string          `json:"status"`
	Mode     Mode            `json:"mode"`
}

// SubscriptionRecord is the recurring-payment state on an entry.
type SubscriptionRecord struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Mode   Mode   `json:"mode"`
}

// PaymentsMeta is the "payments" bucket of an entry. Total and
// Currency carry the expected charge computed at submission time; the
// settlement engine cross-checks fetched invoice state against them.
type PaymentsMeta struct {
	Gateway      string                       `json:"gateway,omitempty"`
	Method       string                       `json:"method,omitempty"`
	Currency     string                       `json:"currency"`
	Total        decimal.Decimal              `json:"total"`
	Transactions map[string]TransactionRecord `json:"transactions,omitempty"`
	Subscription *SubscriptionRecord          `json:"subscription,omitempty"`
}

// Note is one audit line in the "notes" bucket. The bucket is
// append-only and ordered.
type Note struct {
	Source  string    `json:"source"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/formworks/payments/internal/domain/entity"
	"github.com/formworks/payments/internal/domain/provider"
	"github.com/formworks/payments/internal/domain/repository"
	"go.uber.org/zap"
)

// InvoiceClientFactory builds an invoice client from resolved mode
// settings.
type InvoiceClientFactory func(ms *entity.ModeSettings) provider.InvoiceClient

// BTCPayEvent is the parsed crypto webhook notification. Only ids and
// metadata are trusted from it; amount, currency and status come from
// a gateway re-fetch keyed by the invoice id.
type BTCPayEvent struct {
	Type      string            `json:"type"`
	InvoiceID string            `json:"invoiceId"`
	StoreID   string            `json:"storeId"`
	Metadata  map[string]string `json:"metadata"`
}

type btcpayHandler func(ctx context.Context, ms *entity.ModeSettings, ev *BTCPayEvent) Ack

// BTCPaySettlement reconciles crypto invoice lifecycle events onto
// form entries.
type BTCPaySettlement struct {
	logger      *zap.Logger
	entries     repository.EntryRepository
	submissions repository.SubmissionStore
	invoices    InvoiceClientFactory
	routes      map[entity.EventKind]btcpayHandler
}

// NewBTCPaySettlement creates the crypto settlement engine.
func NewBTCPaySettlement(
	logger *zap.Logger,
	entries repository.EntryRepository,
	submissions repository.SubmissionStore,
	invoices InvoiceClientFactory,
) *BTCPaySettlement {
	s := &BTCPaySettlement{
		logger:      logger,
		entries:     entries,
		submissions: submissions,
		invoices:    invoices,
	}
	s.routes = map[entity.EventKind]btcpayHandler{
		entity.EventInvoiceReceivedPayment: s.handleReceivedPayment,
		entity.EventInvoiceProcessing:      s.handleInvoiceStatus,
		entity.EventInvoicePaymentSettled:  s.handleInvoiceStatus,
		entity.EventInvoiceSettled:         s.handleInvoiceStatus,
		entity.EventInvoiceExpired:         s.handleInvoiceStatus,
		entity.EventInvoiceInvalid:         s.handleInvoiceStatus,
	}
	return s
}

// Handle dispatches a verified event. Unknown event types are
// acknowledged and dropped so new processor events never cause errors.
func (s *BTCPaySettlement) Handle(ctx context.Context, ms *entity.ModeSettings, ev *BTCPayEvent) Ack {
	handler, ok := s.routes[entity.EventKind(ev.Type)]
	if !ok {
		s.logger.Debug("Ignoring unhandled event type",
			zap.String("type", ev.Type))
		return AckOK("")
	}
	return handler(ctx, ms, ev)
}

// handleReceivedPayment correlates the first payment on an invoice to
// its pending submission, cross-checks the fetched invoice against the
// expected charge and finalizes the submission. Resumption happens at
// most once; a transaction already on file makes redelivery a no-op.
func (s *BTCPaySettlement) handleReceivedPayment(ctx context.Context, ms *entity.ModeSettings, ev *BTCPayEvent) Ack {
	submissionID := ev.Metadata["submission_id"]
	if submissionID == "" {
		// Not an invoice created by this integration.
		return AckOK("")
	}

	submission, err := s.submissions.Restore(ctx, submissionID)
	if err != nil {
		s.logger.Error("Failed to restore pending submission",
			zap.String("submission_id", submissionID),
			zap.Error(err))
		return AckOK("")
	}
	if submission == nil {
		return AckOK("")
	}

	invoice, err := s.invoices(ms).GetInvoice(ctx, ms.StoreID, ev.InvoiceID)
	if err != nil {
		s.logger.Error("Exception on getting invoice",
			zap.String("code", "webhook_invoice_get_exception"),
			zap.String("invoice_id", ev.InvoiceID),
			zap.Error(err))
		return AckOK("")
	}

	payments, err := s.entries.GetPayments(ctx, submission.EntryID)
	if err != nil {
		s.logger.Error("Failed to load payments bucket",
			zap.Int64("entry_id", submission.EntryID),
			zap.Error(err))
		return AckOK("")
	}

	// A mismatched amount will never self-correct, so it is logged and
	// acknowledged rather than left for redelivery.
	if !invoice.Amount.Equal(payments.Total) {
		s.logger.Error("Payment with incorrect amount has been made",
			zap.String("code", "unmatched_payment_amount"),
			zap.String("submission_id", submissionID),
			zap.String("invoice_id", invoice.ID),
			zap.String("amount", invoice.Amount.String()),
			zap.String("expected", payments.Total.String()))
		return AckOK("")
	}
	if !strings.EqualFold(invoice.Currency, payments.Currency) {
		s.logger.Error("Payment with incorrect currency has been made",
			zap.String("code", "unmatched_payment_currency"),
			zap.String("submission_id", submissionID),
			zap.String("invoice_id", invoice.ID),
			zap.String("currency", invoice.Currency))
		return AckOK("")
	}

	if _, exists := payments.Transactions[invoice.ID]; exists {
		// Redelivery after the transaction was recorded; the submission
		// was already resumed.
		return AckOK("")
	}

	payments.Gateway = entity.GatewayBTCPay
	payments.Method = entity.MethodCheckout
	if payments.Transactions == nil {
		payments.Transactions = make(map[string]entity.TransactionRecord)
	}
	payments.Transactions[invoice.ID] = entity.TransactionRecord{
		Amount:   invoice.Amount,
		Currency: invoice.Currency,
		Status:   invoice.Status,
		Mode:     ms.Mode,
	}
	if err := s.entries.UpdatePayments(ctx, submission.EntryID, payments); err != nil {
		s.logger.Error("Failed to save payments bucket",
			zap.Int64("entry_id", submission.EntryID),
			zap.Error(err))
		return AckOK("")
	}

	if err := s.entries.PutMeta(ctx, submission.EntryID, entity.LookupMarkerKey(entity.GatewayBTCPay, invoice.ID), "1"); err != nil {
		s.logger.Error("Failed to save invoice lookup marker",
			zap.Int64("entry_id", submission.EntryID),
			zap.String("invoice_id", invoice.ID),
			zap.Error(err))
	}

	s.appendNote(ctx, submission.EntryID, fmt.Sprintf("Payment with invoice %s has been made", invoice.ID))

	if err := s.submissions.Continue(ctx, submissionID); err != nil {
		s.logger.Error("Failed to continue pending submission",
			zap.String("submission_id", submissionID),
			zap.Error(err))
	}
	return AckOK("")
}

// handleInvoiceStatus applies a status-only transition to an already
// recorded transaction. Status events never create transactions: an
// entry or transaction that is not on file yet (out-of-order delivery,
// foreign invoice) is a benign no-op.
func (s *BTCPaySettlement) handleInvoiceStatus(ctx context.Context, ms *entity.ModeSettings, ev *BTCPayEvent) Ack {
	entry, err := s.entries.GetByMeta(ctx, entity.LookupMarkerKey(entity.GatewayBTCPay, ev.InvoiceID), "1")
	if err != nil {
		s.logger.Error("Failed to look up entry by invoice marker",
			zap.String("invoice_id", ev.InvoiceID),
			zap.Error(err))
		return AckOK("")
	}
	if entry == nil {
		return AckOK("")
	}

	invoice, err := s.invoices(ms).GetInvoice(ctx, ms.StoreID, ev.InvoiceID)
	if err != nil {
		s.logger.Error("Exception on getting invoice",
			zap.String("code", "webhook_invoice_get_exception"),
			zap.String("invoice_id", ev.InvoiceID),
			zap.Error(err))
		return AckOK("")
	}

	// Re-read right before the mutation; deliveries for the same
	// invoice may be concurrent.
	payments, err := s.entries.GetPayments(ctx, entry.ID)
	if err != nil {
		s.logger.Error("Failed to load payments bucket",
			zap.Int64("entry_id", entry.ID),
			zap.Error(err))
		return AckOK("")
	}

	transaction, ok := payments.Transactions[invoice.ID]
	if !ok {
		return AckOK("")
	}
	if transaction.Status == invoice.Status {
		// Same status redelivered; nothing to transition.
		return AckOK("")
	}

	transaction.Status = invoice.Status
	payments.Transactions[invoice.ID] = transaction
	if err := s.entries.UpdatePayments(ctx, entry.ID, payments); err != nil {
		s.logger.Error("Failed to save payments bucket",
			zap.Int64("entry_id", entry.ID),
			zap.Error(err))
		return AckOK("")
	}

	s.appendNote(ctx, entry.ID, fmt.Sprintf("Invoice %s status changed to %s", invoice.ID, invoice.Status))
	return AckOK("")
}

func (s *BTCPaySettlement) appendNote(ctx context.Context, entryID int64, message string) {
	note := entity.Note{
		Source:  entity.GatewayBTCPay,
		Message: message,
		Date:    time.Now().UTC(),
	}
	if err := s.entries.AppendNote(ctx, entryID, note); err != nil {
		s.logger.Error("Failed to append entry note",
			zap.Int64("entry_id", entryID),
			zap.Error(err))
	}
}

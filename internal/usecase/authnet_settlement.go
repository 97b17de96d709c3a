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

// CardClientFactory builds a card reporting client from resolved mode
// settings.
type CardClientFactory func(ms *entity.ModeSettings) provider.CardClient

// AuthNetEvent is the parsed card-gateway webhook notification.
type AuthNetEvent struct {
	NotificationID string             `json:"notificationId"`
	EventType      string             `json:"eventType"`
	Payload        AuthNetEventPayload `json:"payload"`
}

// AuthNetEventPayload carries the subject entity of the notification:
// a transaction id for payment events, a subscription id for
// subscription lifecycle events.
type AuthNetEventPayload struct {
	ID         string `json:"id"`
	EntityName string `json:"entityName"`
	Status     string `json:"status"`
}

type authnetHandler func(ctx context.Context, ms *entity.ModeSettings, ev *AuthNetEvent) Ack

// AuthNetSettlement reconciles card subscription and transaction
// events onto form entries.
type AuthNetSettlement struct {
	logger      *zap.Logger
	entries     repository.EntryRepository
	submissions repository.SubmissionStore
	correlator  repository.SubscriptionCorrelator
	cards       CardClientFactory
	routes      map[entity.EventKind]authnetHandler
}

// NewAuthNetSettlement creates the card settlement engine.
func NewAuthNetSettlement(
	logger *zap.Logger,
	entries repository.EntryRepository,
	submissions repository.SubmissionStore,
	correlator repository.SubscriptionCorrelator,
	cards CardClientFactory,
) *AuthNetSettlement {
	s := &AuthNetSettlement{
		logger:      logger,
		entries:     entries,
		submissions: submissions,
		correlator:  correlator,
		cards:       cards,
	}
	s.routes = map[entity.EventKind]authnetHandler{
		entity.EventSubscriptionCreated:    s.handleSubscription,
		entity.EventSubscriptionUpdated:    s.handleSubscription,
		entity.EventSubscriptionCancelled:  s.handleSubscription,
		entity.EventSubscriptionExpired:    s.handleSubscription,
		entity.EventSubscriptionExpiring:   s.handleSubscription,
		entity.EventSubscriptionFailed:     s.handleSubscription,
		entity.EventSubscriptionSuspended:  s.handleSubscription,
		entity.EventSubscriptionTerminated: s.handleSubscription,
		entity.EventRefundCreated:          s.handleRefund,
		entity.EventCaptureCreated:         s.handleCapture,
	}
	return s
}

// Handle dispatches a verified event; unknown kinds are acknowledged
// and dropped.
func (s *AuthNetSettlement) Handle(ctx context.Context, ms *entity.ModeSettings, ev *AuthNetEvent) Ack {
	handler, ok := s.routes[entity.EventKind(ev.EventType)]
	if !ok {
		s.logger.Debug("Ignoring unhandled event type",
			zap.String("type", ev.EventType))
		return AckOK("")
	}
	return handler(ctx, ms, ev)
}

// RegisterSubscription records which submission initiated a processor
// subscription. The platform calls this right after it creates the
// subscription, before any lifecycle webhook can arrive for it.
func (s *AuthNetSettlement) RegisterSubscription(ctx context.Context, mode entity.Mode, subscriptionID, submissionID string) error {
	if err := s.correlator.Set(ctx, mode, subscriptionID, submissionID); err != nil {
		s.logger.Error("Failed to store subscription correlation",
			zap.String("subscription_id", subscriptionID),
			zap.String("submission_id", submissionID),
			zap.Error(err))
		return err
	}
	s.logger.Info("Subscription correlation recorded",
		zap.String("subscription_id", subscriptionID),
		zap.String("submission_id", submissionID),
		zap.String("mode", string(mode)))
	return nil
}

// subscriptionStatus normalizes the status signalled by a lifecycle
// event. Terminal lifecycle kinds imply their status even when the
// payload omits one.
func subscriptionStatus(ev *AuthNetEvent) string {
	if ev.Payload.Status != "" {
		return strings.ToLower(ev.Payload.Status)
	}
	parts := strings.Split(ev.EventType, ".")
	return parts[len(parts)-1]
}

// handleSubscription resolves the submission that initiated the
// subscription and takes one of two paths. While the submission is
// still pending, only a status of exactly "active" releases it; every
// interim status is ignored. Once finalized, later events update the
// stored subscription status in place after verifying the id on file
// matches the event's.
func (s *AuthNetSettlement) handleSubscription(ctx context.Context, ms *entity.ModeSettings, ev *AuthNetEvent) Ack {
	subscriptionID := ev.Payload.ID
	if subscriptionID == "" {
		return AckOK("")
	}

	submissionID, err := s.correlator.Get(ctx, ms.Mode, subscriptionID)
	if err != nil {
		s.logger.Error("Failed to resolve subscription correlation",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return AckOK("")
	}
	if submissionID == "" {
		// Subscription was not initiated by this integration.
		return AckOK("")
	}

	status := subscriptionStatus(ev)

	submission, err := s.submissions.Restore(ctx, submissionID)
	if err != nil {
		s.logger.Error("Failed to restore pending submission",
			zap.String("submission_id", submissionID),
			zap.Error(err))
		return AckOK("")
	}
	if submission != nil {
		return s.activatePending(ctx, ms, submission, subscriptionID, status)
	}
	return s.updateSettled(ctx, ev, submissionID, subscriptionID, status)
}

// activatePending releases a held submission on the first "active"
// signal. All other interim statuses are dropped while pending.
func (s *AuthNetSettlement) activatePending(ctx context.Context, ms *entity.ModeSettings, submission *entity.Submission, subscriptionID, status string) Ack {
	if status != entity.SubscriptionStatusActive {
		return AckOK("")
	}

	payments, err := s.entries.GetPayments(ctx, submission.EntryID)
	if err != nil {
		s.logger.Error("Failed to load payments bucket",
			zap.Int64("entry_id", submission.EntryID),
			zap.Error(err))
		return AckOK("")
	}

	if payments.Subscription != nil && payments.Subscription.ID == subscriptionID {
		// Duplicate activation delivery; the submission was already
		// resumed.
		return AckOK("")
	}

	payments.Gateway = entity.GatewayAuthNet
	payments.Method = entity.MethodCard
	payments.Subscription = &entity.SubscriptionRecord{
		ID:     subscriptionID,
		Status: status,
		Mode:   ms.Mode,
	}

	// Best-effort: seed the transactions already charged under the
	// subscription. A gateway failure here must not block resumption.
	if transactions, err := s.cards(ms).ListSubscriptionTransactions(ctx, subscriptionID); err != nil {
		s.logger.Warn("Could not seed subscription transactions",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
	} else {
		if payments.Transactions == nil {
			payments.Transactions = make(map[string]entity.TransactionRecord)
		}
		for _, transaction := range transactions {
			if _, exists := payments.Transactions[transaction.ID]; exists {
				continue
			}
			payments.Transactions[transaction.ID] = entity.TransactionRecord{
				Amount:   transaction.Amount,
				Currency: transaction.Currency,
				Status:   transaction.Status,
				Mode:     ms.Mode,
			}
			if err := s.entries.PutMeta(ctx, submission.EntryID, entity.LookupMarkerKey(entity.GatewayAuthNet, transaction.ID), "1"); err != nil {
				s.logger.Error("Failed to save transaction lookup marker",
					zap.Int64("entry_id", submission.EntryID),
					zap.String("transaction_id", transaction.ID),
					zap.Error(err))
			}
		}
	}

	if err := s.entries.UpdatePayments(ctx, submission.EntryID, payments); err != nil {
		s.logger.Error("Failed to save payments bucket",
			zap.Int64("entry_id", submission.EntryID),
			zap.Error(err))
		return AckOK("")
	}

	if err := s.entries.PutMeta(ctx, submission.EntryID, entity.MetaSubmissionID, submission.ID); err != nil {
		s.logger.Error("Failed to save submission id meta",
			zap.Int64("entry_id", submission.EntryID),
			zap.Error(err))
	}
	if err := s.entries.PutMeta(ctx, submission.EntryID, entity.LookupMarkerKey(entity.GatewayAuthNet, subscriptionID), "1"); err != nil {
		s.logger.Error("Failed to save subscription lookup marker",
			zap.Int64("entry_id", submission.EntryID),
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
	}

	s.appendNote(ctx, submission.EntryID, fmt.Sprintf("Subscription %s activated", subscriptionID))

	if err := s.submissions.Continue(ctx, submission.ID); err != nil {
		s.logger.Error("Failed to continue pending submission",
			zap.String("submission_id", submission.ID),
			zap.Error(err))
	}
	return AckOK("")
}

// updateSettled applies a status transition to the subscription on an
// already-finalized entry. The subscription id on file must match the
// event's; a mismatch is logged as an audit event and dropped.
func (s *AuthNetSettlement) updateSettled(ctx context.Context, ev *AuthNetEvent, submissionID, subscriptionID, status string) Ack {
	entry, err := s.entries.GetByMeta(ctx, entity.MetaSubmissionID, submissionID)
	if err != nil {
		s.logger.Error("Failed to look up entry by submission id",
			zap.String("submission_id", submissionID),
			zap.Error(err))
		return AckOK("")
	}
	if entry == nil {
		return AckOK("")
	}

	payments, err := s.entries.GetPayments(ctx, entry.ID)
	if err != nil {
		s.logger.Error("Failed to load payments bucket",
			zap.Int64("entry_id", entry.ID),
			zap.Error(err))
		return AckOK("")
	}

	if payments.Subscription == nil || payments.Subscription.ID != subscriptionID {
		s.logger.Error("Subscription id does not match entry",
			zap.String("code", "unmatched_subscription_id"),
			zap.String("submission_id", submissionID),
			zap.String("subscription_id", subscriptionID),
			zap.String("event_type", ev.EventType))
		return AckOK("")
	}
	if payments.Subscription.Status == status {
		return AckOK("")
	}

	payments.Subscription.Status = status
	if err := s.entries.UpdatePayments(ctx, entry.ID, payments); err != nil {
		s.logger.Error("Failed to save payments bucket",
			zap.Int64("entry_id", entry.ID),
			zap.Error(err))
		return AckOK("")
	}

	s.appendNote(ctx, entry.ID, fmt.Sprintf("Subscription %s status changed to %s", subscriptionID, status))
	return AckOK("")
}

func (s *AuthNetSettlement) handleCapture(ctx context.Context, ms *entity.ModeSettings, ev *AuthNetEvent) Ack {
	return s.applyTransactionStatus(ctx, ev, entity.TransactionStatusCaptured)
}

func (s *AuthNetSettlement) handleRefund(ctx context.Context, ms *entity.ModeSettings, ev *AuthNetEvent) Ack {
	return s.applyTransactionStatus(ctx, ev, entity.TransactionStatusRefunded)
}

// applyTransactionStatus sets the status of an already-recorded
// transaction. Transactions are never created here: an id that is not
// on file yet (out-of-order delivery, foreign transaction) is a benign
// no-op, and redelivering the same status changes nothing.
func (s *AuthNetSettlement) applyTransactionStatus(ctx context.Context, ev *AuthNetEvent, status string) Ack {
	transactionID := ev.Payload.ID
	if transactionID == "" {
		return AckOK("")
	}

	entry, err := s.entries.GetByMeta(ctx, entity.LookupMarkerKey(entity.GatewayAuthNet, transactionID), "1")
	if err != nil {
		s.logger.Error("Failed to look up entry by transaction marker",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		return AckOK("")
	}
	if entry == nil {
		return AckOK("")
	}

	payments, err := s.entries.GetPayments(ctx, entry.ID)
	if err != nil {
		s.logger.Error("Failed to load payments bucket",
			zap.Int64("entry_id", entry.ID),
			zap.Error(err))
		return AckOK("")
	}

	transaction, ok := payments.Transactions[transactionID]
	if !ok {
		return AckOK("")
	}
	if transaction.Status == status {
		return AckOK("")
	}

	transaction.Status = status
	payments.Transactions[transactionID] = transaction
	if err := s.entries.UpdatePayments(ctx, entry.ID, payments); err != nil {
		s.logger.Error("Failed to save payments bucket",
			zap.Int64("entry_id", entry.ID),
			zap.Error(err))
		return AckOK("")
	}

	s.appendNote(ctx, entry.ID, fmt.Sprintf("Transaction %s %s (amount %s %s)",
		transactionID, status, transaction.Amount.String(), strings.ToUpper(transaction.Currency)))
	return AckOK("")
}

func (s *AuthNetSettlement) appendNote(ctx context.Context, entryID int64, message string) {
	note := entity.Note{
		Source:  entity.GatewayAuthNet,
		Message: message,
		Date:    time.Now().UTC(),
	}
	if err := s.entries.AppendNote(ctx, entryID, note); err != nil {
		s.logger.Error("Failed to append entry note",
			zap.Int64("entry_id", entryID),
			zap.Error(err))
	}
}

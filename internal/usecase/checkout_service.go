package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/formworks/payments/internal/domain/entity"
	domainErrors "github.com/formworks/payments/internal/domain/errors"
	"github.com/formworks/payments/internal/domain/provider"
	"github.com/formworks/payments/internal/domain/repository"
	"go.uber.org/zap"
)

// supportedCurrencies are the currencies the crypto checkout accepts.
var supportedCurrencies = map[string]bool{
	"USD": true,
	"AUD": true,
	"EUR": true,
	"GBP": true,
	"CAD": true,
}

// CheckoutService creates processor invoices for pending submissions.
type CheckoutService struct {
	logger      *zap.Logger
	settings    *SettingsService
	submissions repository.SubmissionStore
	entries     repository.EntryRepository
	invoices    InvoiceClientFactory
	publicURL   string
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	logger *zap.Logger,
	settings *SettingsService,
	submissions repository.SubmissionStore,
	entries repository.EntryRepository,
	invoices InvoiceClientFactory,
	publicURL string,
) *CheckoutService {
	return &CheckoutService{
		logger:      logger,
		settings:    settings,
		submissions: submissions,
		entries:     entries,
		invoices:    invoices,
		publicURL:   strings.TrimRight(publicURL, "/"),
	}
}

// CreateOrder creates a crypto invoice for a pending submission's
// expected total. The submission id rides along in invoice metadata so
// the received-payment webhook can correlate back to it.
func (s *CheckoutService) CreateOrder(ctx context.Context, submissionID string) (*provider.Invoice, error) {
	ms, err := s.settings.ModeSettings(ctx, entity.GatewayBTCPay)
	if err != nil {
		return nil, err
	}
	if ms == nil {
		return nil, domainErrors.ErrGatewayNotConfigured
	}

	submission, err := s.submissions.Restore(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, domainErrors.ErrSubmissionNotFound
	}

	payments, err := s.entries.GetPayments(ctx, submission.EntryID)
	if err != nil {
		return nil, err
	}
	if !supportedCurrencies[strings.ToUpper(payments.Currency)] {
		return nil, domainErrors.ErrCurrencyNotSupported
	}

	invoice, err := s.invoices(ms).CreateInvoice(ctx, ms.StoreID, &provider.CreateInvoiceRequest{
		Amount:   payments.Total,
		Currency: strings.ToUpper(payments.Currency),
		Metadata: map[string]string{
			"submission_id": submissionID,
		},
		RedirectURL: fmt.Sprintf("%s/checkout/return?submission_id=%s", s.publicURL, submissionID),
	})
	if err != nil {
		s.logger.Error("Failed to create invoice",
			zap.String("submission_id", submissionID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Checkout invoice created",
		zap.String("submission_id", submissionID),
		zap.String("invoice_id", invoice.ID),
		zap.String("mode", string(ms.Mode)))
	return invoice, nil
}

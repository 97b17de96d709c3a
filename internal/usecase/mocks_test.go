package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/formworks/payments/internal/domain/entity"
	"github.com/formworks/payments/internal/domain/provider"
)

// MockEntryRepository is a mock implementation of EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) GetByMeta(ctx context.Context, key, value string) (*entity.Entry, error) {
	args := m.Called(ctx, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Entry), args.Error(1)
}

func (m *MockEntryRepository) GetPayments(ctx context.Context, entryID int64) (*entity.PaymentsMeta, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentsMeta), args.Error(1)
}

func (m *MockEntryRepository) UpdatePayments(ctx context.Context, entryID int64, payments *entity.PaymentsMeta) error {
	args := m.Called(ctx, entryID, payments)
	return args.Error(0)
}

func (m *MockEntryRepository) GetNotes(ctx context.Context, entryID int64) ([]entity.Note, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Note), args.Error(1)
}

func (m *MockEntryRepository) AppendNote(ctx context.Context, entryID int64, note entity.Note) error {
	args := m.Called(ctx, entryID, note)
	return args.Error(0)
}

func (m *MockEntryRepository) PutMeta(ctx context.Context, entryID int64, key, value string) error {
	args := m.Called(ctx, entryID, key, value)
	return args.Error(0)
}

// MockSubmissionStore is a mock implementation of SubmissionStore
type MockSubmissionStore struct {
	mock.Mock
}

func (m *MockSubmissionStore) Restore(ctx context.Context, submissionID string) (*entity.Submission, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Submission), args.Error(1)
}

func (m *MockSubmissionStore) Continue(ctx context.Context, submissionID string) error {
	args := m.Called(ctx, submissionID)
	return args.Error(0)
}

func (m *MockSubmissionStore) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, gateway, key string) (string, error) {
	args := m.Called(ctx, gateway, key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsRepository) GetAll(ctx context.Context, gateway string) (map[string]string, error) {
	args := m.Called(ctx, gateway)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingsRepository) Update(ctx context.Context, gateway string, values map[string]string) error {
	args := m.Called(ctx, gateway, values)
	return args.Error(0)
}

// MockSubscriptionCorrelator is a mock implementation of SubscriptionCorrelator
type MockSubscriptionCorrelator struct {
	mock.Mock
}

func (m *MockSubscriptionCorrelator) Get(ctx context.Context, mode entity.Mode, subscriptionID string) (string, error) {
	args := m.Called(ctx, mode, subscriptionID)
	return args.String(0), args.Error(1)
}

func (m *MockSubscriptionCorrelator) Set(ctx context.Context, mode entity.Mode, subscriptionID, submissionID string) error {
	args := m.Called(ctx, mode, subscriptionID, submissionID)
	return args.Error(0)
}

// MockInvoiceClient is a mock implementation of InvoiceClient
type MockInvoiceClient struct {
	mock.Mock
}

func (m *MockInvoiceClient) CreateInvoice(ctx context.Context, storeID string, req *provider.CreateInvoiceRequest) (*provider.Invoice, error) {
	args := m.Called(ctx, storeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Invoice), args.Error(1)
}

func (m *MockInvoiceClient) GetInvoice(ctx context.Context, storeID, invoiceID string) (*provider.Invoice, error) {
	args := m.Called(ctx, storeID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Invoice), args.Error(1)
}

// MockWebhookClient is a mock implementation of WebhookClient
type MockWebhookClient struct {
	mock.Mock
}

func (m *MockWebhookClient) CreateWebhook(ctx context.Context, storeID, url string, events []string, secret string) (*provider.Webhook, error) {
	args := m.Called(ctx, storeID, url, events, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Webhook), args.Error(1)
}

func (m *MockWebhookClient) GetWebhook(ctx context.Context, storeID, webhookID string) (*provider.Webhook, error) {
	args := m.Called(ctx, storeID, webhookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Webhook), args.Error(1)
}

// MockCardClient is a mock implementation of CardClient
type MockCardClient struct {
	mock.Mock
}

func (m *MockCardClient) GetTransaction(ctx context.Context, transactionID string) (*provider.CardTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CardTransaction), args.Error(1)
}

func (m *MockCardClient) GetSubscription(ctx context.Context, subscriptionID string) (*provider.CardSubscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CardSubscription), args.Error(1)
}

func (m *MockCardClient) ListSubscriptionTransactions(ctx context.Context, subscriptionID string) ([]provider.CardTransaction, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.CardTransaction), args.Error(1)
}

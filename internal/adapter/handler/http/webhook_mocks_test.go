package http_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/formworks/payments/internal/domain/entity"
	"github.com/formworks/payments/internal/domain/provider"
)

// mockSettingsRepository is a mock implementation of SettingsRepository
type mockSettingsRepository struct {
	mock.Mock
}

func (m *mockSettingsRepository) Get(ctx context.Context, gateway, key string) (string, error) {
	args := m.Called(ctx, gateway, key)
	return args.String(0), args.Error(1)
}

func (m *mockSettingsRepository) GetAll(ctx context.Context, gateway string) (map[string]string, error) {
	args := m.Called(ctx, gateway)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *mockSettingsRepository) Update(ctx context.Context, gateway string, values map[string]string) error {
	args := m.Called(ctx, gateway, values)
	return args.Error(0)
}

// mockEntryRepository is a mock implementation of EntryRepository
type mockEntryRepository struct {
	mock.Mock
}

func (m *mockEntryRepository) GetByMeta(ctx context.Context, key, value string) (*entity.Entry, error) {
	args := m.Called(ctx, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Entry), args.Error(1)
}

func (m *mockEntryRepository) GetPayments(ctx context.Context, entryID int64) (*entity.PaymentsMeta, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentsMeta), args.Error(1)
}

func (m *mockEntryRepository) UpdatePayments(ctx context.Context, entryID int64, payments *entity.PaymentsMeta) error {
	args := m.Called(ctx, entryID, payments)
	return args.Error(0)
}

func (m *mockEntryRepository) GetNotes(ctx context.Context, entryID int64) ([]entity.Note, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Note), args.Error(1)
}

func (m *mockEntryRepository) AppendNote(ctx context.Context, entryID int64, note entity.Note) error {
	args := m.Called(ctx, entryID, note)
	return args.Error(0)
}

func (m *mockEntryRepository) PutMeta(ctx context.Context, entryID int64, key, value string) error {
	args := m.Called(ctx, entryID, key, value)
	return args.Error(0)
}

// mockSubmissionStore is a mock implementation of SubmissionStore
type mockSubmissionStore struct {
	mock.Mock
}

func (m *mockSubmissionStore) Restore(ctx context.Context, submissionID string) (*entity.Submission, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Submission), args.Error(1)
}

func (m *mockSubmissionStore) Continue(ctx context.Context, submissionID string) error {
	args := m.Called(ctx, submissionID)
	return args.Error(0)
}

func (m *mockSubmissionStore) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// mockCorrelator is a mock implementation of SubscriptionCorrelator
type mockCorrelator struct {
	mock.Mock
}

func (m *mockCorrelator) Get(ctx context.Context, mode entity.Mode, subscriptionID string) (string, error) {
	args := m.Called(ctx, mode, subscriptionID)
	return args.String(0), args.Error(1)
}

func (m *mockCorrelator) Set(ctx context.Context, mode entity.Mode, subscriptionID, submissionID string) error {
	args := m.Called(ctx, mode, subscriptionID, submissionID)
	return args.Error(0)
}

// mockInvoiceClient is a mock implementation of InvoiceClient
type mockInvoiceClient struct {
	mock.Mock
}

func (m *mockInvoiceClient) CreateInvoice(ctx context.Context, storeID string, req *provider.CreateInvoiceRequest) (*provider.Invoice, error) {
	args := m.Called(ctx, storeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Invoice), args.Error(1)
}

func (m *mockInvoiceClient) GetInvoice(ctx context.Context, storeID, invoiceID string) (*provider.Invoice, error) {
	args := m.Called(ctx, storeID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Invoice), args.Error(1)
}

// mockCardClient is a mock implementation of CardClient
type mockCardClient struct {
	mock.Mock
}

func (m *mockCardClient) GetTransaction(ctx context.Context, transactionID string) (*provider.CardTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CardTransaction), args.Error(1)
}

func (m *mockCardClient) GetSubscription(ctx context.Context, subscriptionID string) (*provider.CardSubscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CardSubscription), args.Error(1)
}

func (m *mockCardClient) ListSubscriptionTransactions(ctx context.Context, subscriptionID string) ([]provider.CardTransaction, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.CardTransaction), args.Error(1)
}

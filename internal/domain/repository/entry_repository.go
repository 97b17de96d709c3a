package repository

import (
	"context"

	"github.com/formworks/payments/internal/domain/entity"
)

// EntryRepository is the narrow contract the settlement engine holds on
// the entries subsystem. The storage layer offers no transactional
// read-modify-write, so callers re-read a bucket immediately before
// mutating it and write the whole bucket back (last-write-wins);
// idempotent check-before-insert in the engine makes duplicate webhook
// deliveries a no-op rather than corruption.
type EntryRepository interface {
	// GetByMeta finds the entry carrying the given meta key/value pair.
	// Returns (nil, nil) when no entry matches.
	GetByMeta(ctx context.Context, key, value string) (*entity.Entry, error)

	// GetPayments loads the payments bucket of an entry. A missing
	// bucket yields an empty PaymentsMeta, not an error.
	GetPayments(ctx context.Context, entryID int64) (*entity.PaymentsMeta, error)

	// UpdatePayments writes the full payments bucket back.
	UpdatePayments(ctx context.Context, entryID int64, payments *entity.PaymentsMeta) error

	// GetNotes loads the notes bucket of an entry.
	GetNotes(ctx context.Context, entryID int64) ([]entity.Note, error)

	// AppendNote re-reads the notes bucket, appends one note and writes
	// the bucket back.
	AppendNote(ctx context.Context, entryID int64, note entity.Note) error

	// PutMeta writes a single named meta value on the entry, such as a
	// lookup marker or the submission id of a finalized entry.
	PutMeta(ctx context.Context, entryID int64, key, value string) error
}

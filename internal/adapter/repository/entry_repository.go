package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/formworks/payments/internal/domain/entity"
	"github.com/formworks/payments/internal/domain/model"
	domainRepo "github.com/formworks/payments/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type entryRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewEntryRepository creates a gorm-backed entry repository.
func NewEntryRepository(db *gorm.DB, logger *zap.Logger) domainRepo.EntryRepository {
	return &entryRepository{db: db, logger: logger}
}

func (r *entryRepository) GetByMeta(ctx context.Context, key, value string) (*entity.Entry, error) {
	var meta model.EntryMeta
	err := r.db.WithContext(ctx).
		Where("key = ? AND value = ?", key, value).
		First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up entry by meta %q: %w", key, err)
	}

	var row model.Entry
	if err := r.db.WithContext(ctx).First(&row, meta.EntryID).Error; err != nil {
		return nil, fmt.Errorf("failed to load entry %d: %w", meta.EntryID, err)
	}

	return &entity.Entry{
		ID:        row.ID,
		FormID:    row.FormID,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *entryRepository) GetPayments(ctx context.Context, entryID int64) (*entity.PaymentsMeta, error) {
	raw, found, err := r.getMeta(ctx, entryID, entity.MetaPayments)
	if err != nil {
		return nil, err
	}
	if !found {
		return &entity.PaymentsMeta{}, nil
	}

	var payments entity.PaymentsMeta
	if err := json.Unmarshal([]byte(raw), &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments bucket of entry %d: %w", entryID, err)
	}
	return &payments, nil
}

func (r *entryRepository) UpdatePayments(ctx context.Context, entryID int64, payments *entity.PaymentsMeta) error {
	raw, err := json.Marshal(payments)
	if err != nil {
		return fmt.Errorf("failed to encode payments bucket: %w", err)
	}
	return r.PutMeta(ctx, entryID, entity.MetaPayments, string(raw))
}

func (r *entryRepository) GetNotes(ctx context.Context, entryID int64) ([]entity.Note, error) {
	raw, found, err := r.getMeta(ctx, entryID, entity.MetaNotes)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var notes []entity.Note
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes bucket of entry %d: %w", entryID, err)
	}
	return notes, nil
}

func (r *entryRepository) AppendNote(ctx context.Context, entryID int64, note entity.Note) error {
	// Re-read right before writing. The bucket has no transactional
	// read-modify-write, so concurrent deliveries race on a narrow
	// last-write-wins window.
	notes, err := r.GetNotes(ctx, entryID)
	if err != nil {
		return err
	}
	notes = append(notes, note)

	raw, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes bucket: %w", err)
	}
	return r.PutMeta(ctx, entryID, entity.MetaNotes, string(raw))
}

func (r *entryRepository) PutMeta(ctx context.Context, entryID int64, key, value string) error {
	meta := model.EntryMeta{
		EntryID: entryID,
		Key:     key,
		Value:   value,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&meta).Error
	if err != nil {
		return fmt.Errorf("failed to write meta %q on entry %d: %w", key, entryID, err)
	}
	return nil
}

func (r *entryRepository) getMeta(ctx context.Context, entryID int64, key string) (string, bool, error) {
	var meta model.EntryMeta
	err := r.db.WithContext(ctx).
		Where("entry_id = ? AND key = ?", entryID, key).
		First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read meta %q of entry %d: %w", key, entryID, err)
	}
	return meta.Value, true, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/formworks/payments/internal/domain/entity"
	"github.com/formworks/payments/internal/domain/model"
	domainRepo "github.com/formworks/payments/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type submissionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSubmissionRepository creates a gorm-backed pending submission store.
func NewSubmissionRepository(db *gorm.DB, logger *zap.Logger) domainRepo.SubmissionStore {
	return &submissionRepository{db: db, logger: logger}
}

func (r *submissionRepository) Restore(ctx context.Context, submissionID string) (*entity.Submission, error) {
	var row model.PendingSubmission
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", submissionID, string(entity.SubmissionStatusPending)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to restore submission %s: %w", submissionID, err)
	}

	// An expired submission can no longer be restored even when the
	// expiry sweep has not flipped its status yet.
	if !row.ExpiresAt.IsZero() && row.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}

	return &entity.Submission{
		ID:        row.ID,
		EntryID:   row.EntryID,
		FormID:    row.FormID,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *submissionRepository) Continue(ctx context.Context, submissionID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.PendingSubmission{}).
		Where("id = ? AND status = ?", submissionID, string(entity.SubmissionStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entity.SubmissionStatusCompleted),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to continue submission %s: %w", submissionID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("submission %s is not pending", submissionID)
	}

	r.logger.Info("Pending submission continued",
		zap.String("submission_id", submissionID))
	return nil
}

func (r *submissionRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.PendingSubmission{}).
		Where("status = ? AND expires_at < ?", string(entity.SubmissionStatusPending), now).
		Updates(map[string]interface{}{
			"status":     string(entity.SubmissionStatusExpired),
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire stale submissions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

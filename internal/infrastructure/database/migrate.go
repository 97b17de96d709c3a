package database

import (
	"github.com/formworks/payments/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.Entry{},
		&model.EntryMeta{},
		&model.Setting{},
		&model.PendingSubmission{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes GORM tags cannot express.
func createCustomIndexes(db *gorm.DB) error {
	// Expired pending submissions are swept by created status, keep
	// the scan cheap.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_pending_submissions_expiry ON pending_submissions (expires_at) WHERE status = 'pending'`).Error; err != nil {
		return err
	}
	return nil
}

package database

import (
	"github.com/formworks/payments/internal/adapter/repository"
	domainRepo "github.com/formworks/payments/internal/domain/repository"
	"github.com/formworks/payments/internal/infrastructure/crypto"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Entry      domainRepo.EntryRepository
	Settings   domainRepo.SettingsRepository
	Submission domainRepo.SubmissionStore
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, cipher crypto.Cipher, logger *zap.Logger) *Repositories {
	return &Repositories{
		Entry:      repository.NewEntryRepository(db, logger),
		Settings:   repository.NewSettingsRepository(db, cipher),
		Submission: repository.NewSubmissionRepository(db, logger),
	}
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/formworks/payments/internal/domain/model"
	domainRepo "github.com/formworks/payments/internal/domain/repository"
	"github.com/formworks/payments/internal/infrastructure/crypto"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// secretSuffixes are the setting keys whose values are sealed at rest.
// Everything else (mode, store ids, urls) stays readable.
var secretSuffixes = []string{"api_key", "signature_key", "webhook"}

func isSecretKey(key string) bool {
	for _, suffix := range secretSuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

type settingsRepository struct {
	db     *gorm.DB
	cipher crypto.Cipher
}

// NewSettingsRepository creates a gorm-backed settings repository.
// Credential values are sealed with the given cipher before storage.
func NewSettingsRepository(db *gorm.DB, cipher crypto.Cipher) domainRepo.SettingsRepository {
	return &settingsRepository{db: db, cipher: cipher}
}

func (r *settingsRepository) Get(ctx context.Context, gateway, key string) (string, error) {
	var row model.Setting
	err := r.db.WithContext(ctx).
		Where("gateway = ? AND key = ?", gateway, key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s/%s: %w", gateway, key, err)
	}
	return r.cipher.Open(row.Value)
}

func (r *settingsRepository) GetAll(ctx context.Context, gateway string) (map[string]string, error) {
	var rows []model.Setting
	if err := r.db.WithContext(ctx).Where("gateway = ?", gateway).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read settings for %s: %w", gateway, err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		value, err := r.cipher.Open(row.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to open setting %s/%s: %w", gateway, row.Key, err)
		}
		values[row.Key] = value
	}
	return values, nil
}

func (r *settingsRepository) Update(ctx context.Context, gateway string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if isSecretKey(key) {
				sealed, err := r.cipher.Seal(value)
				if err != nil {
					return fmt.Errorf("failed to seal setting %s/%s: %w", gateway, key, err)
				}
				value = sealed
			}
			row := model.Setting{Gateway: gateway, Key: key, Value: value}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "gateway"}, {Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("failed to upsert setting %s/%s: %w", gateway, key, err)
			}
		}
		return nil
	})
}

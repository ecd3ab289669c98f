package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/tax"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
)

// GormSettingsRepository implements SettingsRepository using GORM.
// The organisation settings are a single row; Get returns the most
// recently saved record.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the organisation settings
func (r *GormSettingsRepository) Get(ctx context.Context) (*tax.Settings, error) {
	var model models.SettingsModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or replaces the organisation settings
func (r *GormSettingsRepository) Save(ctx context.Context, settings *tax.Settings) error {
	model := models.SettingsModelFromDomain(settings)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormSettingsRepository implements SettingsRepository
var _ tax.SettingsRepository = (*GormSettingsRepository)(nil)

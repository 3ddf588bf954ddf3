package persistence

import (
	"context"
	"fmt"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormModelVersionRepository implements commodity.ModelVersionRepository using GORM
type GormModelVersionRepository struct {
	db *gorm.DB
}

// NewGormModelVersionRepository creates a new GormModelVersionRepository
func NewGormModelVersionRepository(db *gorm.DB) *GormModelVersionRepository {
	return &GormModelVersionRepository{db: db}
}

// Save inserts a model version
func (r *GormModelVersionRepository) Save(ctx context.Context, v *commodity.ModelVersion) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	model := models.ModelVersionModelFromDomain(v)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save model version: %w", err)
	}
	v.CreatedAt = model.CreatedAt
	return nil
}

// List returns up to limit versions, newest first
func (r *GormModelVersionRepository) List(ctx context.Context, limit int) ([]commodity.ModelVersion, error) {
	if limit <= 0 || limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	var rows []models.ModelVersionModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list model versions: %w", err)
	}
	out := make([]commodity.ModelVersion, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

var _ commodity.ModelVersionRepository = (*GormModelVersionRepository)(nil)

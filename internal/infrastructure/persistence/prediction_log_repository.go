package persistence

import (
	"context"
	"fmt"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxRecentLimit caps the number of entries Recent returns
const MaxRecentLimit = 1000

// GormPredictionLogRepository implements commodity.PredictionLogRepository using GORM
type GormPredictionLogRepository struct {
	db *gorm.DB
}

// NewGormPredictionLogRepository creates a new GormPredictionLogRepository
func NewGormPredictionLogRepository(db *gorm.DB) *GormPredictionLogRepository {
	return &GormPredictionLogRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormPredictionLogRepository) WithTx(tx *gorm.DB) *GormPredictionLogRepository {
	return &GormPredictionLogRepository{db: tx}
}

// Save inserts a prediction log entry. An entry without an ID gets a new one.
func (r *GormPredictionLogRepository) Save(ctx context.Context, log *commodity.PredictionLog) error {
	if log == nil {
		return shared.ErrInvalidInput.WithMessage("prediction log is nil")
	}
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	model := models.PredictionLogModelFromDomain(log)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save prediction log: %w", err)
	}
	log.CreatedAt = model.CreatedAt
	return nil
}

// Recent returns up to limit entries, newest first
func (r *GormPredictionLogRepository) Recent(ctx context.Context, limit int) ([]commodity.PredictionLog, error) {
	if limit <= 0 {
		return []commodity.PredictionLog{}, nil
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	var rows []models.PredictionLogModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent predictions: %w", err)
	}

	logs := make([]commodity.PredictionLog, len(rows))
	for i := range rows {
		logs[i] = rows[i].ToDomain()
	}
	return logs, nil
}

// CountByMethod returns the number of logged predictions per method
func (r *GormPredictionLogRepository) CountByMethod(ctx context.Context) (map[commodity.Method]int64, error) {
	var rows []struct {
		Method string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.PredictionLogModel{}).
		Select("method, COUNT(*) AS count").
		Group("method").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}

	counts := make(map[commodity.Method]int64, len(rows))
	for _, row := range rows {
		counts[commodity.Method(row.Method)] = row.Count
	}
	return counts, nil
}

var _ commodity.PredictionLogRepository = (*GormPredictionLogRepository)(nil)

package commodity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PredictionLog is the audit record kept for every served prediction
type PredictionLog struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	CropType       string
	Region         string
	Quality        string
	QuantityKg     float64
	Season         string
	PredictedPrice decimal.Decimal
	Method         Method
	Confidence     float64
}

// PredictionLogRepository persists prediction logs
type PredictionLogRepository interface {
	Save(ctx context.Context, log *PredictionLog) error
	// Recent returns up to limit entries, newest first
	Recent(ctx context.Context, limit int) ([]PredictionLog, error)
	CountByMethod(ctx context.Context) (map[Method]int64, error)
}

package models

import (
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PredictionLogModel is the persistence model for a served prediction
type PredictionLogModel struct {
	BaseModel
	CropType       string          `gorm:"type:varchar(50);not null;index"`
	Region         string          `gorm:"type:varchar(50);not null"`
	Quality        string          `gorm:"type:varchar(20);not null"`
	QuantityKg     float64         `gorm:"not null"`
	Season         string          `gorm:"type:varchar(20)"`
	PredictedPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Method         string          `gorm:"type:varchar(20);not null;index"`
	Confidence     float64         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PredictionLogModel) TableName() string {
	return "prediction_logs"
}

// PredictionLogModelFromDomain converts a domain log entry to its model
func PredictionLogModelFromDomain(l *commodity.PredictionLog) *PredictionLogModel {
	m := &PredictionLogModel{
		CropType:       l.CropType,
		Region:         l.Region,
		Quality:        l.Quality,
		QuantityKg:     l.QuantityKg,
		Season:         l.Season,
		PredictedPrice: l.PredictedPrice,
		Method:         string(l.Method),
		Confidence:     l.Confidence,
	}
	m.FromDomainBaseEntity(shared.BaseEntity{ID: l.ID, CreatedAt: l.CreatedAt})
	return m
}

// ToDomain converts the model to a domain log entry
func (m *PredictionLogModel) ToDomain() commodity.PredictionLog {
	return commodity.PredictionLog{
		ID:             m.ID,
		CreatedAt:      m.CreatedAt,
		CropType:       m.CropType,
		Region:         m.Region,
		Quality:        m.Quality,
		QuantityKg:     m.QuantityKg,
		Season:         m.Season,
		PredictedPrice: m.PredictedPrice,
		Method:         commodity.Method(m.Method),
		Confidence:     m.Confidence,
	}
}

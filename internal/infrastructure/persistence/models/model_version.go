package models

import (
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
)

// ModelVersionModel is the persistence model for a trained model version
type ModelVersionModel struct {
	BaseModel
	ModelType       string  `gorm:"type:varchar(50);not null"`
	Version         string  `gorm:"type:varchar(20);not null"`
	ArtifactKey     string  `gorm:"type:varchar(255);not null"`
	TrainingSamples int     `gorm:"not null"`
	TestingSamples  int     `gorm:"not null"`
	R2Score         float64 `gorm:"column:r2_score;not null"`
	MAE             float64 `gorm:"column:mae;not null"`
	RMSE            float64 `gorm:"column:rmse;not null"`
	Trigger         string  `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ModelVersionModel) TableName() string {
	return "model_versions"
}

// ModelVersionModelFromDomain converts a domain model version to its model
func ModelVersionModelFromDomain(v *commodity.ModelVersion) *ModelVersionModel {
	m := &ModelVersionModel{
		ModelType:       v.ModelType,
		Version:         v.Version,
		ArtifactKey:     v.ArtifactKey,
		TrainingSamples: v.TrainingSamples,
		TestingSamples:  v.TestingSamples,
		R2Score:         v.R2,
		MAE:             v.MAE,
		RMSE:            v.RMSE,
		Trigger:         string(v.Trigger),
	}
	m.FromDomainBaseEntity(shared.BaseEntity{ID: v.ID, CreatedAt: v.CreatedAt})
	return m
}

// ToDomain converts the model to a domain model version
func (m *ModelVersionModel) ToDomain() commodity.ModelVersion {
	return commodity.ModelVersion{
		ID:              m.ID,
		CreatedAt:       m.CreatedAt,
		ModelType:       m.ModelType,
		Version:         m.Version,
		ArtifactKey:     m.ArtifactKey,
		TrainingSamples: m.TrainingSamples,
		TestingSamples:  m.TestingSamples,
		R2:              m.R2Score,
		MAE:             m.MAE,
		RMSE:            m.RMSE,
		Trigger:         commodity.Trigger(m.Trigger),
	}
}

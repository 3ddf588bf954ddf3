package commodity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Trigger records what started a training run
type Trigger string

const (
	TriggerAPI       Trigger = "api"
	TriggerScheduler Trigger = "scheduler"
	TriggerCLI       Trigger = "cli"
)

// ModelVersion is the history entry written for every trained model
type ModelVersion struct {
	ID              uuid.UUID `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	ModelType       string    `json:"model_type"`
	Version         string    `json:"version"`
	ArtifactKey     string    `json:"artifact_key"`
	TrainingSamples int       `json:"training_samples"`
	TestingSamples  int       `json:"testing_samples"`
	R2              float64   `json:"r2_score"`
	MAE             float64   `json:"mae"`
	RMSE            float64   `json:"rmse"`
	Trigger         Trigger   `json:"trigger"`
}

// ModelVersionRepository persists the training history
type ModelVersionRepository interface {
	Save(ctx context.Context, v *ModelVersion) error
	// List returns up to limit versions, newest first
	List(ctx context.Context, limit int) ([]ModelVersion, error)
}

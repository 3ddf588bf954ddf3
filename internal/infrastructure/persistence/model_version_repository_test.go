package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelVersionRepository(t *testing.T) {
	repo := NewGormModelVersionRepository(newSQLiteDatabase(t).DB)
	ctx := context.Background()

	first := &commodity.ModelVersion{
		CreatedAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ModelType:       "random_forest",
		Version:         "1.0.0",
		ArtifactKey:     "price_model.gob",
		TrainingSamples: 400,
		TestingSamples:  100,
		R2:              0.91,
		MAE:             2.5,
		RMSE:            3.1,
		Trigger:         commodity.TriggerCLI,
	}
	second := *first
	second.CreatedAt = first.CreatedAt.Add(24 * time.Hour)
	second.ModelType = "gradient_boosting"
	second.Trigger = commodity.TriggerScheduler

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, &second))
	assert.NotEqual(t, first.ID, second.ID)

	versions, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "gradient_boosting", versions[0].ModelType)
	assert.Equal(t, commodity.TriggerScheduler, versions[0].Trigger)
	assert.Equal(t, "random_forest", versions[1].ModelType)
	assert.InDelta(t, 0.91, versions[1].R2, 1e-9)
	assert.Equal(t, 400, versions[1].TrainingSamples)
}

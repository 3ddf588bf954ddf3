package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLog(crop string, method commodity.Method, price string, at time.Time) *commodity.PredictionLog {
	return &commodity.PredictionLog{
		ID:             uuid.New(),
		CreatedAt:      at,
		CropType:       crop,
		Region:         commodity.RegionNorth,
		Quality:        commodity.QualityPremium,
		QuantityKg:     1000,
		Season:         commodity.SeasonWinter,
		PredictedPrice: decimal.RequireFromString(price),
		Method:         method,
		Confidence:     method.Confidence(),
	}
}

func TestPredictionLogRepository_SaveAndRecent(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormPredictionLogRepository(db.DB)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, newLog(commodity.CropWheat, commodity.MethodFallback, "54", base)))
	require.NoError(t, repo.Save(ctx, newLog(commodity.CropRice, commodity.MethodMLModel, "71.35", base.Add(time.Minute))))
	require.NoError(t, repo.Save(ctx, newLog(commodity.CropCorn, commodity.MethodMLModel, "33.12", base.Add(2*time.Minute))))

	t.Run("newest first", func(t *testing.T) {
		logs, err := repo.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, logs, 3)
		assert.Equal(t, commodity.CropCorn, logs[0].CropType)
		assert.Equal(t, commodity.CropRice, logs[1].CropType)
		assert.Equal(t, commodity.CropWheat, logs[2].CropType)
	})

	t.Run("limit", func(t *testing.T) {
		logs, err := repo.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, commodity.CropCorn, logs[0].CropType)
	})

	t.Run("non-positive limit", func(t *testing.T) {
		logs, err := repo.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})

	t.Run("round trips fields", func(t *testing.T) {
		logs, err := repo.Recent(ctx, 1)
		require.NoError(t, err)
		got := logs[0]
		assert.True(t, decimal.RequireFromString("33.12").Equal(got.PredictedPrice), got.PredictedPrice.String())
		assert.Equal(t, commodity.MethodMLModel, got.Method)
		assert.InDelta(t, 0.85, got.Confidence, 1e-9)
		assert.Equal(t, commodity.RegionNorth, got.Region)
		assert.Equal(t, commodity.QualityPremium, got.Quality)
		assert.Equal(t, commodity.SeasonWinter, got.Season)
		assert.InDelta(t, 1000, got.QuantityKg, 1e-9)
	})

	t.Run("count by method", func(t *testing.T) {
		counts, err := repo.CountByMethod(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[commodity.Method]int64{
			commodity.MethodMLModel:  2,
			commodity.MethodFallback: 1,
		}, counts)
	})
}

func TestPredictionLogRepository_SaveAssignsID(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormPredictionLogRepository(db.DB)

	entry := newLog(commodity.CropWheat, commodity.MethodFallback, "45", time.Time{})
	entry.ID = uuid.Nil

	require.NoError(t, repo.Save(context.Background(), entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestPredictionLogRepository_SaveNil(t *testing.T) {
	repo := NewGormPredictionLogRepository(newSQLiteDatabase(t).DB)
	err := repo.Save(context.Background(), nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestPredictionLogRepository_QueryError(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormPredictionLogRepository(db.DB)

	mock.ExpectQuery(`SELECT method, COUNT\(\*\) AS count FROM "prediction_logs"`).
		WillReturnError(assert.AnError)

	_, err := repo.CountByMethod(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionLogRepository_RecentQuery(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormPredictionLogRepository(db.DB)

	id := uuid.New()
	at := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "prediction_logs" ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "created_at", "crop_type", "region", "quality", "quantity_kg",
			"season", "predicted_price", "method", "confidence",
		}).AddRow(id.String(), at, "Wheat", "South", "Grade_A", 2500.0, "Spring", "43.89", "fallback", 0.65))

	logs, err := repo.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, id, logs[0].ID)
	assert.Equal(t, "43.89", logs[0].PredictedPrice.StringFixed(2))
	assert.Equal(t, commodity.MethodFallback, logs[0].Method)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package datagen

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/dataset"
)

var refTime = func() time.Time { return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC) }

func TestPrice(t *testing.T) {
	tests := []struct {
		name    string
		crop    string
		quality string
		region  string
		season  string
		demand  string
		qty     float64
		noise   float64
		want    float64
	}{
		{"neutral factors", commodity.CropCorn, commodity.QualityGradeA, commodity.RegionNorth, commodity.SeasonWinter, commodity.DemandMedium, 1000, 0, 35},
		{"premium west high demand", commodity.CropCorn, commodity.QualityPremium, commodity.RegionWest, commodity.SeasonWinter, commodity.DemandHigh, 1000, 0, 55.04},
		{"seasonal pattern", commodity.CropWheat, commodity.QualityGradeA, commodity.RegionNorth, commodity.SeasonMonsoon, commodity.DemandMedium, 1000, 0, 51.75},
		{"bulk discount", commodity.CropSpices, commodity.QualityGradeA, commodity.RegionNorth, commodity.SeasonWinter, commodity.DemandMedium, 8000, 0, 114},
		{"noise scales by volatility", commodity.CropRice, commodity.QualityGradeA, commodity.RegionNorth, commodity.SeasonSpring, commodity.DemandMedium, 1000, 1, 72.8},
		{"floored at half base", commodity.CropCorn, commodity.QualityGradeC, commodity.RegionEast, commodity.SeasonWinter, commodity.DemandVeryLow, 1000, -3, 17.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Price(tt.crop, tt.quality, tt.region, tt.season, tt.demand, tt.qty, tt.noise)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestQuantityDiscount(t *testing.T) {
	assert.Equal(t, 1.0, QuantityDiscount(2000))
	assert.Equal(t, 0.97, QuantityDiscount(3000))
	assert.Equal(t, 0.97, QuantityDiscount(5000))
	assert.Equal(t, 0.95, QuantityDiscount(8000))
	assert.Equal(t, 0.95, QuantityDiscount(10000))
	assert.Equal(t, 0.92, QuantityDiscount(10001))
}

func TestMonthSeason(t *testing.T) {
	want := map[int]string{
		1: "Winter", 2: "Winter", 3: "Spring", 5: "Spring", 6: "Monsoon",
		8: "Monsoon", 9: "Autumn", 11: "Autumn", 12: "Winter",
	}
	for month, season := range want {
		assert.Equal(t, season, MonthSeason(month), "month %d", month)
	}
}

func TestGenerator_Generate(t *testing.T) {
	records := New(WithClock(refTime)).Generate(300)
	require.Len(t, records, 300)

	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -DefaultDays)
	for i, r := range records {
		assert.True(t, commodity.Crops.Contains(r.CropType))
		assert.True(t, commodity.Regions.Contains(r.Region))
		assert.True(t, commodity.Qualities.Contains(r.Quality))
		assert.True(t, commodity.DemandLevels.Contains(r.MarketDemand))
		assert.True(t, commodity.WeatherConditions.Contains(r.Weather))
		assert.Contains(t, Quantities, r.QuantityKg)
		assert.Equal(t, MonthSeason(int(r.Date.Month())), r.Season)
		assert.Equal(t, SourceLabel, r.Source)
		assert.False(t, r.Date.Before(start))
		assert.True(t, r.Date.Before(start.AddDate(0, 0, DefaultDays)))
		assert.Greater(t, r.MarketPrice, 0.0)
		if i > 0 {
			assert.False(t, r.Date.Before(records[i-1].Date), "records are sorted by date")
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a := New(WithClock(refTime), WithSeed(7)).Generate(50)
	b := New(WithClock(refTime), WithSeed(7)).Generate(50)
	c := New(WithClock(refTime), WithSeed(8)).Generate(50)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerator_GenerateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "crop_prices_expanded.csv")

	frame, err := New(WithClock(refTime)).GenerateFile(context.Background(), 40, path)
	require.NoError(t, err)
	assert.Equal(t, 40, frame.Len())

	loaded, errs, err := dataset.ReadCSVFile(path)
	require.NoError(t, err)
	assert.False(t, errs.HasErrors())
	assert.Equal(t, commodity.DatasetColumns, loaded.Header())
	assert.Equal(t, 40, loaded.Len())

	_, err = New().GenerateFile(context.Background(), 0, path)
	assert.Error(t, err)
}

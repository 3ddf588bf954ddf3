package commodity

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CachedPrice is what the prediction cache keeps per feature vector
type CachedPrice struct {
	Price  decimal.Decimal `json:"price"`
	Method Method          `json:"method"`
}

// PredictionCache stores recent prices keyed by feature vector
type PredictionCache interface {
	Get(ctx context.Context, key string) (CachedPrice, bool, error)
	Set(ctx context.Context, key string, value CachedPrice) error
	// Clear drops every entry, e.g. after a new model is loaded
	Clear(ctx context.Context) error
	Close() error
}

// CacheKey returns a stable key for a feature vector
func CacheKey(f PriceFeatures) string {
	return strings.Join([]string{
		f.CropType,
		f.Region,
		f.Quality,
		strconv.FormatFloat(f.QuantityKg, 'f', -1, 64),
		f.Season,
		f.Weather,
		f.MarketDemand,
		strconv.Itoa(f.Year),
		strconv.Itoa(f.Month),
	}, "|")
}

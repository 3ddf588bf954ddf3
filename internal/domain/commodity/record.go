package commodity

import (
	"math"
	"time"
)

// CSV column names of the training dataset
const (
	ColumnDate         = "date"
	ColumnCropType     = "crop_type"
	ColumnRegion       = "region"
	ColumnQuality      = "quality"
	ColumnQuantityKg   = "quantity_kg"
	ColumnMarketPrice  = "market_price"
	ColumnSeason       = "season"
	ColumnWeather      = "weather"
	ColumnMarketDemand = "market_demand"
	ColumnSource       = "source"
)

// DatasetColumns is the canonical column order of the dataset
var DatasetColumns = []string{
	ColumnDate, ColumnCropType, ColumnRegion, ColumnQuality, ColumnQuantityKg,
	ColumnMarketPrice, ColumnSeason, ColumnWeather, ColumnMarketDemand, ColumnSource,
}

// DateLayout is the layout of the date column
const DateLayout = "2006-01-02"

// PriceRecord is one observed (or generated) market price. Missing strings
// are empty, missing numbers are NaN and a missing date is the zero time.
type PriceRecord struct {
	Date         time.Time
	CropType     string
	Region       string
	Quality      string
	QuantityKg   float64
	MarketPrice  float64
	Season       string
	Weather      string
	MarketDemand string
	Source       string
}

// HasPrice reports whether the record carries a usable target value
func (r PriceRecord) HasPrice() bool {
	return !math.IsNaN(r.MarketPrice)
}

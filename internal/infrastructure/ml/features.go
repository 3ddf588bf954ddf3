package ml

import (
	"fmt"
	"math"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/dataset"
)

// Feature names beyond the dataset columns
const (
	FeatureYear      = "year"
	FeatureMonth     = "month"
	FeatureDayOfYear = "day_of_year"
)

// TargetColumn is the predicted column
const TargetColumn = commodity.ColumnMarketPrice

// CategoricalFeatures are label encoded
var CategoricalFeatures = []string{
	commodity.ColumnCropType,
	commodity.ColumnRegion,
	commodity.ColumnQuality,
	commodity.ColumnSeason,
	commodity.ColumnWeather,
	commodity.ColumnMarketDemand,
}

// NumericFeatures are standardized. The comparer adds day of year.
var (
	NumericFeatures         = []string{commodity.ColumnQuantityKg, FeatureYear, FeatureMonth}
	ExtendedNumericFeatures = []string{commodity.ColumnQuantityKg, FeatureYear, FeatureMonth, FeatureDayOfYear}
)

// Preprocessor turns records and prediction features into model rows: label
// encoded categoricals followed by standardized numerics.
type Preprocessor struct {
	Categorical []string
	Numeric     []string
	Encoders    map[string]*LabelEncoder
	Scaler      *StandardScaler
}

// FeatureColumns returns the model input columns in order
func (p *Preprocessor) FeatureColumns() []string {
	cols := make([]string, 0, len(p.Categorical)+len(p.Numeric))
	cols = append(cols, p.Categorical...)
	return append(cols, p.Numeric...)
}

func categoricalValue(r commodity.PriceRecord, col string) string {
	switch col {
	case commodity.ColumnCropType:
		return r.CropType
	case commodity.ColumnRegion:
		return r.Region
	case commodity.ColumnQuality:
		return r.Quality
	case commodity.ColumnSeason:
		return r.Season
	case commodity.ColumnWeather:
		return r.Weather
	case commodity.ColumnMarketDemand:
		return r.MarketDemand
	}
	return ""
}

func numericValue(r commodity.PriceRecord, col string) float64 {
	switch col {
	case commodity.ColumnQuantityKg:
		return r.QuantityKg
	}
	if r.Date.IsZero() {
		return math.NaN()
	}
	switch col {
	case FeatureYear:
		return float64(r.Date.Year())
	case FeatureMonth:
		return float64(r.Date.Month())
	case FeatureDayOfYear:
		return float64(r.Date.YearDay())
	}
	return math.NaN()
}

// FitTransform fits encoders and scaler on records and returns the design
// matrix and target. Records without a price are skipped; missing
// categoricals take the column mode and missing numerics the column median.
func (p *Preprocessor) FitTransform(records []commodity.PriceRecord) ([][]float64, []float64, error) {
	usable := make([]commodity.PriceRecord, 0, len(records))
	for _, r := range records {
		if r.HasPrice() {
			usable = append(usable, r)
		}
	}
	if len(usable) == 0 {
		return nil, nil, shared.ErrNoData.WithMessage("no records with a market price")
	}

	nCat := len(p.Categorical)
	X := make([][]float64, len(usable))
	y := make([]float64, len(usable))
	for i := range X {
		X[i] = make([]float64, nCat+len(p.Numeric))
		y[i] = usable[i].MarketPrice
	}

	p.Encoders = make(map[string]*LabelEncoder, nCat)
	for c, col := range p.Categorical {
		values := make([]string, len(usable))
		for i, r := range usable {
			values[i] = categoricalValue(r, col)
		}
		if fill, ok := dataset.Mode(values); ok {
			for i, v := range values {
				if v == "" {
					values[i] = fill
				}
			}
		}
		enc := NewLabelEncoder(values)
		for i, v := range values {
			X[i][c], _ = enc.Encode(v)
		}
		p.Encoders[col] = enc
	}

	numericCols := make([]int, len(p.Numeric))
	for k, col := range p.Numeric {
		c := nCat + k
		numericCols[k] = c
		values := make([]float64, len(usable))
		for i, r := range usable {
			values[i] = numericValue(r, col)
		}
		median := dataset.Median(values)
		if math.IsNaN(median) {
			return nil, nil, fmt.Errorf("feature %s has no values", col)
		}
		for i, v := range values {
			if math.IsNaN(v) {
				v = median
			}
			X[i][c] = v
		}
	}

	p.Scaler = FitScaler(X, numericCols)
	for _, row := range X {
		p.Scaler.Transform(row)
	}
	return X, y, nil
}

// Transform encodes one prediction input. Unknown labels encode as the
// first class. Day of year is taken at the middle of the month.
func (p *Preprocessor) Transform(f commodity.PriceFeatures) []float64 {
	r := commodity.PriceRecord{
		Date:         time.Date(f.Year, time.Month(f.Month), 15, 0, 0, 0, 0, time.UTC),
		CropType:     f.CropType,
		Region:       f.Region,
		Quality:      f.Quality,
		QuantityKg:   f.QuantityKg,
		Season:       f.Season,
		Weather:      f.Weather,
		MarketDemand: f.MarketDemand,
	}

	row := make([]float64, len(p.Categorical)+len(p.Numeric))
	for c, col := range p.Categorical {
		if enc, ok := p.Encoders[col]; ok {
			row[c], _ = enc.Encode(categoricalValue(r, col))
		}
	}
	for k, col := range p.Numeric {
		row[len(p.Categorical)+k] = numericValue(r, col)
	}
	if p.Scaler != nil {
		p.Scaler.Transform(row)
	}
	return row
}

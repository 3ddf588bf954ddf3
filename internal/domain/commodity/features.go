package commodity

import (
	"fmt"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
)

// Defaults applied to optional prediction inputs
const (
	DefaultWeather      = "Normal"
	DefaultMarketDemand = DemandMedium
)

// PriceRequest is the raw prediction input. Optional fields are pointers so
// an omitted value can be told apart from a zero value.
type PriceRequest struct {
	CropType     string
	Region       string
	Quality      string
	QuantityKg   *float64
	Season       string
	Weather      string
	MarketDemand string
	Year         *int
	Month        *int
}

// PriceFeatures is a complete feature vector ready for a model or the
// fallback formula.
type PriceFeatures struct {
	CropType     string  `json:"crop_type"`
	Region       string  `json:"region"`
	Quality      string  `json:"quality"`
	QuantityKg   float64 `json:"quantity_kg"`
	Season       string  `json:"season"`
	Weather      string  `json:"weather"`
	MarketDemand string  `json:"market_demand"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
}

// Validate checks the required fields of a request
func (r PriceRequest) Validate() error {
	var missing []string
	if r.CropType == "" {
		missing = append(missing, ColumnCropType)
	}
	if r.Region == "" {
		missing = append(missing, ColumnRegion)
	}
	if r.Quality == "" {
		missing = append(missing, ColumnQuality)
	}
	if r.QuantityKg == nil {
		missing = append(missing, ColumnQuantityKg)
	}
	if len(missing) > 0 {
		return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Missing required fields: %v", missing))
	}
	if *r.QuantityKg <= 0 {
		return shared.ErrInvalidInput.WithMessage("Quantity must be positive")
	}
	if r.Month != nil && (*r.Month < 1 || *r.Month > 12) {
		return shared.ErrInvalidInput.WithMessage("Month must be between 1 and 12")
	}
	return nil
}

// Features validates the request and fills optional fields: the season of
// the current month, "Normal" weather, "Medium" demand and the current year
// and month.
func (r PriceRequest) Features(now time.Time) (PriceFeatures, error) {
	if err := r.Validate(); err != nil {
		return PriceFeatures{}, err
	}

	f := PriceFeatures{
		CropType:     r.CropType,
		Region:       r.Region,
		Quality:      r.Quality,
		QuantityKg:   *r.QuantityKg,
		Season:       r.Season,
		Weather:      r.Weather,
		MarketDemand: r.MarketDemand,
		Year:         now.Year(),
		Month:        int(now.Month()),
	}
	if f.Season == "" {
		f.Season = SeasonFromMonth(int(now.Month()))
	}
	if f.Weather == "" {
		f.Weather = DefaultWeather
	}
	if f.MarketDemand == "" {
		f.MarketDemand = DefaultMarketDemand
	}
	if r.Year != nil {
		f.Year = *r.Year
	}
	if r.Month != nil {
		f.Month = *r.Month
	}
	return f, nil
}

// SeasonFromMonth maps a calendar month to a four-season name. Out of range
// months map to Winter.
func SeasonFromMonth(month int) string {
	switch month {
	case 12, 1, 2:
		return SeasonWinter
	case 3, 4, 5:
		return SeasonSpring
	case 6, 7, 8:
		return SeasonSummer
	case 9, 10, 11:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

// Quantity categories
const (
	QuantityVerySmall = "Very Small"
	QuantitySmall     = "Small"
	QuantityMedium    = "Medium"
	QuantityLarge     = "Large"
	QuantityBulk      = "Bulk"
)

// QuantityCategory bins a quantity into right-closed intervals
// (0,500], (500,1000], (1000,2000], (2000,5000], (5000,inf).
// Non-positive quantities have no category.
func QuantityCategory(qty float64) string {
	switch {
	case qty <= 0:
		return ""
	case qty <= 500:
		return QuantityVerySmall
	case qty <= 1000:
		return QuantitySmall
	case qty <= 2000:
		return QuantityMedium
	case qty <= 5000:
		return QuantityLarge
	default:
		return QuantityBulk
	}
}

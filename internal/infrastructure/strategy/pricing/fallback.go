package pricing

import (
	"context"
	"strconv"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// FallbackStrategyName is the registry name of the rule-based strategy
const FallbackStrategyName = "fallback"

// FactorTable maps a category value to a multiplier, with a default for
// values not in the table.
type FactorTable struct {
	Values  map[string]decimal.Decimal
	Default decimal.Decimal
}

// Lookup returns the factor for key and whether key was known
func (t FactorTable) Lookup(key string) (decimal.Decimal, bool) {
	if v, ok := t.Values[key]; ok {
		return v, true
	}
	return t.Default, false
}

// roundCents rounds the exact binary value of p to 2 decimal places, ties to
// even.
func roundCents(p float64) decimal.Decimal {
	return decimal.RequireFromString(strconv.FormatFloat(p, 'f', 2, 64))
}

func table(def string, values map[string]string) FactorTable {
	t := FactorTable{Values: make(map[string]decimal.Decimal, len(values)), Default: decimal.RequireFromString(def)}
	for k, v := range values {
		t.Values[k] = decimal.RequireFromString(v)
	}
	return t
}

// DefaultBasePrices are per-kg base prices in INR. Spices has no entry and
// falls back to the default of 40.
func DefaultBasePrices() FactorTable {
	return table("40.0", map[string]string{
		commodity.CropWheat:      "45.0",
		commodity.CropRice:       "65.0",
		commodity.CropCorn:       "35.0",
		commodity.CropPulses:     "85.0",
		commodity.CropVegetables: "32.0",
		commodity.CropFruits:     "55.0",
		commodity.CropSugarcane:  "40.0",
		commodity.CropCotton:     "60.0",
		commodity.CropSoybean:    "50.0",
	})
}

// DefaultQualityFactors are the quality grade multipliers
func DefaultQualityFactors() FactorTable {
	return table("1.0", map[string]string{
		commodity.QualityPremium: "1.2",
		commodity.QualityGradeA:  "1.0",
		commodity.QualityGradeB:  "0.8",
		commodity.QualityGradeC:  "0.6",
	})
}

// DefaultRegionFactors are the regional multipliers. Central and Northeast
// take the default.
func DefaultRegionFactors() FactorTable {
	return table("1.0", map[string]string{
		commodity.RegionNorth: "1.0",
		commodity.RegionSouth: "1.05",
		commodity.RegionEast:  "0.95",
		commodity.RegionWest:  "1.02",
	})
}

// DefaultSeasonFactors are the seasonal multipliers. Monsoon takes the default.
func DefaultSeasonFactors() FactorTable {
	return table("1.0", map[string]string{
		commodity.SeasonWinter: "1.0",
		commodity.SeasonSpring: "1.1",
		commodity.SeasonSummer: "0.95",
		commodity.SeasonAutumn: "1.05",
	})
}

// FallbackPricingStrategy prices a commodity as
//
//	base[crop] x quality x region x season x bulk(quantity)
//
// composed in float64 and rounded to 2 decimal places. Unknown keys never fail,
// they use each table's default.
type FallbackPricingStrategy struct {
	strategy.Named
	basePrices FactorTable
	quality    FactorTable
	region     FactorTable
	season     FactorTable
	bulk       BulkDiscount
}

// FallbackOption customizes a FallbackPricingStrategy
type FallbackOption func(*FallbackPricingStrategy)

// WithBasePrices replaces the base price table
func WithBasePrices(t FactorTable) FallbackOption {
	return func(s *FallbackPricingStrategy) { s.basePrices = t }
}

// WithBulkDiscount replaces the bulk discount tiers
func WithBulkDiscount(b BulkDiscount) FallbackOption {
	return func(s *FallbackPricingStrategy) { s.bulk = b }
}

// NewFallbackPricingStrategy creates the rule-based strategy with the
// standard tables.
func NewFallbackPricingStrategy(opts ...FallbackOption) *FallbackPricingStrategy {
	s := &FallbackPricingStrategy{
		Named: strategy.NewNamed(FallbackStrategyName,
			"Rule-based price from crop base price, quality, region, season and bulk discount"),
		basePrices: DefaultBasePrices(),
		quality:    DefaultQualityFactors(),
		region:     DefaultRegionFactors(),
		season:     DefaultSeasonFactors(),
		bulk:       DefaultBulkDiscount(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CalculatePrice implements strategy.PricingStrategy
func (s *FallbackPricingStrategy) CalculatePrice(
	ctx context.Context,
	pricingCtx strategy.PricingContext,
) (strategy.PricingResult, error) {
	if pricingCtx.Quantity.IsNegative() {
		return strategy.PricingResult{}, shared.ErrInvalidInput.WithMessage("Quantity must not be negative")
	}

	base, _ := s.basePrices.Lookup(pricingCtx.CropType)
	multiplier := decimal.NewFromInt(1)
	price := base.InexactFloat64()
	var rules []string

	// Factors multiply into price in table order. Only the float result is
	// rounded.
	mul := func(rule string, f decimal.Decimal, known bool) {
		multiplier = multiplier.Mul(f)
		price *= f.InexactFloat64()
		if known {
			rules = append(rules, rule)
		}
	}
	apply := func(rule string, t FactorTable, key string) {
		f, known := t.Lookup(key)
		mul(rule, f, known)
	}
	apply("quality_multiplier", s.quality, pricingCtx.Quality)
	apply("region_multiplier", s.region, pricingCtx.Region)
	apply("season_multiplier", s.season, pricingCtx.Season)
	if m, ok := s.bulk.Multiplier(pricingCtx.Quantity); ok {
		mul("bulk_discount", m, true)
	}

	unit := roundCents(price)
	return strategy.PricingResult{
		UnitPrice:    unit,
		TotalPrice:   unit.Mul(pricingCtx.Quantity).Round(2),
		BasePrice:    base,
		Multiplier:   multiplier,
		AppliedRules: rules,
	}, nil
}

// Price is a convenience wrapper for callers holding domain features
func (s *FallbackPricingStrategy) Price(ctx context.Context, f commodity.PriceFeatures) (decimal.Decimal, error) {
	res, err := s.CalculatePrice(ctx, ContextFromFeatures(f))
	if err != nil {
		return decimal.Zero, err
	}
	return res.UnitPrice, nil
}

// ContextFromFeatures builds a pricing context from prediction features
func ContextFromFeatures(f commodity.PriceFeatures) strategy.PricingContext {
	return strategy.PricingContext{
		CropType: f.CropType,
		Quality:  f.Quality,
		Region:   f.Region,
		Season:   f.Season,
		Quantity: decimal.NewFromFloat(f.QuantityKg),
	}
}

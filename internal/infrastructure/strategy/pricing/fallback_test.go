package pricing

import (
	"context"
	"testing"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackPricingStrategy_CalculatePrice(t *testing.T) {
	s := NewFallbackPricingStrategy()
	ctx := context.Background()

	tests := []struct {
		name     string
		crop     string
		quality  string
		region   string
		season   string
		quantity string
		want     string
	}{
		{"wheat premium north winter", "Wheat", "Premium", "North", "Winter", "1000", "54.00"},
		{"rice grade a east spring", "Rice", "Grade_A", "East", "Spring", "1500", "67.93"},
		{"corn premium south summer at 2000 boundary", "Corn", "Premium", "South", "Summer", "2000", "41.89"},
		{"pulses grade c west autumn bulk", "Pulses", "Grade_C", "West", "Autumn", "6000", "49.16"},
		{"unknown crop uses default base", "Quinoa", "Grade_A", "North", "Winter", "100", "40.00"},
		{"spices has no base entry", "Spices", "Grade_A", "North", "Winter", "100", "40.00"},
		{"unknown quality region and season", "Wheat", "Grade_Z", "Central", "Monsoon", "100", "45.00"},
		{"just above 2000", "Wheat", "Grade_A", "North", "Winter", "2000.01", "42.75"},
		{"exactly 5000 is the 5 percent tier", "Wheat", "Grade_A", "North", "Winter", "5000", "42.75"},
		{"just above 5000", "Wheat", "Grade_A", "North", "Winter", "5000.01", "40.50"},
		{"grade b", "Vegetables", "Grade_B", "North", "Winter", "10", "25.60"},
		{"float product just below half cent", "Wheat", "Premium", "North", "Summer", "3000", "48.73"},
		{"autumn with 10 percent tier", "Wheat", "Grade_A", "North", "Autumn", "6000", "42.52"},
		{"west with 5 percent tier", "Wheat", "Grade_A", "West", "Winter", "3000", "43.60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.CalculatePrice(ctx, strategy.PricingContext{
				CropType: tt.crop,
				Quality:  tt.quality,
				Region:   tt.region,
				Season:   tt.season,
				Quantity: decimal.RequireFromString(tt.quantity),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.UnitPrice.StringFixed(2))
		})
	}
}

func TestFallbackPricingStrategy_AppliedRulesAndTotal(t *testing.T) {
	s := NewFallbackPricingStrategy()

	res, err := s.CalculatePrice(context.Background(), strategy.PricingContext{
		CropType: "Wheat", Quality: "Premium", Region: "South", Season: "Spring",
		Quantity: decimal.NewFromInt(3000),
	})
	require.NoError(t, err)

	// 45 x 1.2 x 1.05 x 1.1 x 0.95 = 59.2515
	assert.Equal(t, "59.25", res.UnitPrice.StringFixed(2))
	assert.Equal(t, "177750.00", res.TotalPrice.StringFixed(2))
	assert.Equal(t, []string{"quality_multiplier", "region_multiplier", "season_multiplier", "bulk_discount"}, res.AppliedRules)
	assert.True(t, res.BasePrice.Equal(decimal.NewFromInt(45)))
}

func TestFallbackPricingStrategy_NegativeQuantity(t *testing.T) {
	s := NewFallbackPricingStrategy()
	_, err := s.CalculatePrice(context.Background(), strategy.PricingContext{
		CropType: "Wheat", Quantity: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestFallbackPricingStrategy_Price(t *testing.T) {
	s := NewFallbackPricingStrategy()
	price, err := s.Price(context.Background(), commodity.PriceFeatures{
		CropType: "Fruits", Quality: "Premium", Region: "West", Season: "Autumn", QuantityKg: 800,
	})
	require.NoError(t, err)
	// 55 x 1.2 x 1.02 x 1.05 = 70.686
	assert.Equal(t, "70.69", price.StringFixed(2))
}

func TestFallbackPricingStrategy_Options(t *testing.T) {
	s := NewFallbackPricingStrategy(
		WithBasePrices(table("10", map[string]string{"Wheat": "100"})),
		WithBulkDiscount(NewBulkDiscount(nil)),
	)
	price, err := s.Price(context.Background(), commodity.PriceFeatures{CropType: "Wheat", QuantityKg: 99999})
	require.NoError(t, err)
	assert.Equal(t, "100.00", price.StringFixed(2))
	assert.Equal(t, FallbackStrategyName, s.Name())
	assert.NotEmpty(t, s.Description())
}

func TestBulkDiscount_Multiplier(t *testing.T) {
	b := NewBulkDiscount([]BulkDiscountTier{
		{AboveQuantity: decimal.NewFromInt(5000), Multiplier: decimal.RequireFromString("0.9")},
		{AboveQuantity: decimal.NewFromInt(2000), Multiplier: decimal.RequireFromString("0.95")},
	})

	tests := []struct {
		qty     int64
		want    string
		applied bool
	}{
		{0, "1", false},
		{2000, "1", false},
		{2001, "0.95", true},
		{5000, "0.95", true},
		{5001, "0.9", true},
	}
	for _, tt := range tests {
		m, ok := b.Multiplier(decimal.NewFromInt(tt.qty))
		assert.Equal(t, tt.applied, ok, "qty %d", tt.qty)
		assert.True(t, m.Equal(decimal.RequireFromString(tt.want)), "qty %d got %s", tt.qty, m)
	}
	assert.Equal(t, int64(2000), b.Tiers()[0].AboveQuantity.IntPart())
}

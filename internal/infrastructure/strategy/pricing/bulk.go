package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BulkDiscountTier applies Multiplier to quantities strictly above AboveQuantity
type BulkDiscountTier struct {
	AboveQuantity decimal.Decimal `json:"above_quantity"`
	Multiplier    decimal.Decimal `json:"multiplier"`
}

// BulkDiscount selects the discount multiplier for an order quantity
type BulkDiscount struct {
	tiers []BulkDiscountTier
}

// NewBulkDiscount sorts tiers by threshold ascending. Tiers may be given in
// any order.
func NewBulkDiscount(tiers []BulkDiscountTier) BulkDiscount {
	sorted := make([]BulkDiscountTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AboveQuantity.LessThan(sorted[j].AboveQuantity)
	})
	return BulkDiscount{tiers: sorted}
}

// DefaultBulkDiscount is 5% off above 2000 kg and 10% off above 5000 kg
func DefaultBulkDiscount() BulkDiscount {
	return NewBulkDiscount([]BulkDiscountTier{
		{AboveQuantity: decimal.NewFromInt(2000), Multiplier: decimal.RequireFromString("0.95")},
		{AboveQuantity: decimal.NewFromInt(5000), Multiplier: decimal.RequireFromString("0.90")},
	})
}

// Multiplier returns the multiplier of the highest tier whose threshold the
// quantity exceeds, and false when no tier applies.
func (b BulkDiscount) Multiplier(quantity decimal.Decimal) (decimal.Decimal, bool) {
	for i := len(b.tiers) - 1; i >= 0; i-- {
		if quantity.GreaterThan(b.tiers[i].AboveQuantity) {
			return b.tiers[i].Multiplier, true
		}
	}
	return decimal.NewFromInt(1), false
}

// Tiers returns a copy of the tiers
func (b BulkDiscount) Tiers() []BulkDiscountTier {
	out := make([]BulkDiscountTier, len(b.tiers))
	copy(out, b.tiers)
	return out
}

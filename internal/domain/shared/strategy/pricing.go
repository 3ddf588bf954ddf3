package strategy

import (
	"context"

	"github.com/shopspring/decimal"
)

// PricingContext carries the commodity attributes a pricing rule looks at
type PricingContext struct {
	CropType string
	Quality  string
	Region   string
	Season   string
	Quantity decimal.Decimal
}

// PricingResult contains the result of pricing calculation
type PricingResult struct {
	UnitPrice    decimal.Decimal // per kg, rounded to 2 places
	TotalPrice   decimal.Decimal // UnitPrice x Quantity, rounded to 2 places
	BasePrice    decimal.Decimal
	Multiplier   decimal.Decimal // product of every factor applied to BasePrice
	AppliedRules []string
}

// PricingStrategy computes a per-kg price from commodity attributes
type PricingStrategy interface {
	Strategy
	CalculatePrice(ctx context.Context, pricingCtx PricingContext) (PricingResult, error)
}

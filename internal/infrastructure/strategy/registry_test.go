package strategy

import (
	"context"
	"sync"
	"testing"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatPrice struct {
	strategy.Named
	price decimal.Decimal
}

func newFlatPrice(name string, price int64) *flatPrice {
	return &flatPrice{Named: strategy.NewNamed(name, "Flat "+name), price: decimal.NewFromInt(price)}
}

func (s *flatPrice) CalculatePrice(_ context.Context, _ strategy.PricingContext) (strategy.PricingResult, error) {
	return strategy.PricingResult{UnitPrice: s.price}, nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newFlatPrice("flat", 10)))
	assert.ErrorIs(t, r.Register(newFlatPrice("flat", 20)), shared.ErrAlreadyExists)

	s, err := r.Get("flat")
	require.NoError(t, err)
	assert.Equal(t, "flat", s.Name())

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRegistry_Default(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newFlatPrice("a", 1)))
	require.NoError(t, r.Register(newFlatPrice("b", 2)))

	_, err := r.Get("")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, r.Resolve("unknown"))

	assert.ErrorIs(t, r.SetDefault("zzz"), shared.ErrNotFound)
	require.NoError(t, r.SetDefault("b"))
	assert.Equal(t, "b", r.Default())

	assert.Equal(t, "b", r.Resolve("unknown").Name())
	assert.Equal(t, "a", r.Resolve("a").Name())

	require.NoError(t, r.Unregister("b"))
	assert.Empty(t, r.Default())
	assert.ErrorIs(t, r.Unregister("b"), shared.ErrNotFound)
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newFlatPrice("zeta", 1)))
	require.NoError(t, r.Register(newFlatPrice("alpha", 1)))
	require.NoError(t, r.SetDefault("zeta"))

	assert.Equal(t, []Listing{
		{Name: "alpha", Description: "Flat alpha"},
		{Name: "zeta", Description: "Flat zeta", IsDefault: true},
	}, r.List())
}

func TestNewRegistryWithDefaults(t *testing.T) {
	r, err := NewRegistryWithDefaults()
	require.NoError(t, err)

	s, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, "fallback", s.Name())

	res, err := s.CalculatePrice(context.Background(), strategy.PricingContext{
		CropType: "Wheat", Quality: "Premium", Region: "North", Season: "Winter",
		Quantity: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, "54.00", res.UnitPrice.StringFixed(2))
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r, err := NewRegistryWithDefaults()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Resolve("")
			_ = r.List()
		}()
	}
	wg.Wait()
}

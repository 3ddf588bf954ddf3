// Package datagen synthesizes realistic crop price records for training.
package datagen

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/dataset"
)

// Defaults of the generator
const (
	DefaultSeed    uint64 = 42
	DefaultDays           = 730
	DefaultRecords        = 500
	SourceLabel           = "generated"
)

// Generator produces seeded synthetic price records. It is not safe for
// concurrent use.
type Generator struct {
	seed   uint64
	days   int
	now    func() time.Time
	logger *zap.Logger

	rng     *rand.Rand
	quality distuv.Categorical
	demand  distuv.Categorical
	normal  distuv.Normal
}

// Option configures a Generator
type Option func(*Generator)

// WithSeed sets the random seed
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithDays sets the length of the date window ending today
func WithDays(days int) Option {
	return func(g *Generator) { g.days = days }
}

// WithClock sets the reference time for the date window
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the generator logger
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New creates a generator
func New(opts ...Option) *Generator {
	g := &Generator{
		seed:   DefaultSeed,
		days:   DefaultDays,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.days <= 0 {
		g.days = DefaultDays
	}

	src := rand.NewPCG(g.seed, g.seed)
	g.rng = rand.New(src)
	g.quality = distuv.NewCategorical(qualityWeights, src)
	g.demand = distuv.NewCategorical(demandWeights, src)
	g.normal = distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	return g
}

// Price computes the market price of one lot. noise is a standard normal
// draw scaled by the crop volatility. Unknown crops price from zero.
func Price(crop, quality, region, season, demand string, qty, noise float64) float64 {
	var profile CropProfile
	for _, p := range CropProfiles {
		if p.Crop == crop {
			profile = p.Profile
			break
		}
	}

	price := profile.Base *
		lookup(qualityMultipliers, quality) *
		lookup(regionMultipliers, region) *
		SeasonalMultiplier(crop, season) *
		lookup(demandMultipliers, demand) *
		QuantityDiscount(qty)
	price *= 1 + noise*profile.Volatility/100

	return round2(math.Max(price, profile.Base*0.5))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Generate returns n records ordered by date
func (g *Generator) Generate(n int) []commodity.PriceRecord {
	now := g.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -g.days)

	records := make([]commodity.PriceRecord, 0, n)
	for range n {
		date := start.AddDate(0, 0, g.rng.IntN(g.days))
		crop := CropProfiles[g.rng.IntN(len(CropProfiles))].Crop
		quality := commodity.Qualities[int(g.quality.Rand())]
		region := commodity.Regions[g.rng.IntN(len(commodity.Regions))]
		season := MonthSeason(int(date.Month()))
		demand := commodity.DemandLevels[int(g.demand.Rand())]
		weather := commodity.WeatherConditions[g.rng.IntN(len(commodity.WeatherConditions))]
		qty := Quantities[g.rng.IntN(len(Quantities))]

		records = append(records, commodity.PriceRecord{
			Date:         date,
			CropType:     crop,
			Region:       region,
			Quality:      quality,
			QuantityKg:   qty,
			MarketPrice:  Price(crop, quality, region, season, demand, qty, g.normal.Rand()),
			Season:       season,
			Weather:      weather,
			MarketDemand: demand,
			Source:       SourceLabel,
		})
	}

	slices.SortStableFunc(records, func(a, b commodity.PriceRecord) int {
		return a.Date.Compare(b.Date)
	})
	return records
}

// GenerateFile writes n generated records to path
func (g *Generator) GenerateFile(ctx context.Context, n int, path string) (*dataset.Frame, error) {
	if n <= 0 {
		return nil, fmt.Errorf("record count must be positive, got %d", n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame := dataset.FromRecords(g.Generate(n))
	if err := frame.WriteCSVFile(path); err != nil {
		return nil, fmt.Errorf("save generated dataset: %w", err)
	}

	stats := dataset.ComputeStatistics(frame)
	g.logger.Info("Training data generated",
		zap.String("output_file", path),
		zap.Int("records", frame.Len()),
		zap.String("date_range", stats.DateRange),
		zap.Int("crops", stats.UniqueValues.Crops),
		zap.Float64("avg_price", stats.PriceStatistics.Mean),
	)
	return frame, nil
}

package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
)

// DateRange is the first and last date of a dataset
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CropPrice summarizes the prices of one crop
type CropPrice struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Distribution is a categorical breakdown
type Distribution struct {
	Total  int            `json:"total"`
	Counts map[string]int `json:"distribution"`
}

// PriceAnalysis describes market prices overall and per crop
type PriceAnalysis struct {
	Mean   float64              `json:"mean"`
	Median float64              `json:"median"`
	StdDev float64              `json:"std_dev"`
	Min    float64              `json:"min"`
	Max    float64              `json:"max"`
	ByCrop map[string]CropPrice `json:"by_crop"`
}

// SeasonalAnalysis lists the seasons and their mean price
type SeasonalAnalysis struct {
	Seasons          []string           `json:"seasons"`
	AvgPriceBySeason map[string]float64 `json:"avg_price_by_season"`
}

// Profile is the dataset overview written after a pipeline run
type Profile struct {
	TotalRecords     int              `json:"total_records"`
	DateRange        DateRange        `json:"date_range"`
	Crops            Distribution     `json:"crops"`
	Regions          Distribution     `json:"regions"`
	QualityGrades    Distribution     `json:"quality_grades"`
	PriceAnalysis    PriceAnalysis    `json:"price_analysis"`
	SeasonalAnalysis SeasonalAnalysis `json:"seasonal_analysis"`
}

// BuildProfile computes the overview of f
func BuildProfile(f *Frame) Profile {
	stats := ComputeStatistics(f)
	prices := f.Prices()

	p := Profile{
		TotalRecords:  f.Len(),
		DateRange:     dateRange(f),
		Crops:         distribution(f.Column(commodity.ColumnCropType)),
		Regions:       distribution(f.Column(commodity.ColumnRegion)),
		QualityGrades: distribution(f.Column(commodity.ColumnQuality)),
		PriceAnalysis: PriceAnalysis{
			Mean:   stats.PriceStatistics.Mean,
			Median: stats.PriceStatistics.Median,
			StdDev: stats.PriceStatistics.StdDev,
			Min:    stats.PriceStatistics.Min,
			Max:    stats.PriceStatistics.Max,
			ByCrop: make(map[string]CropPrice),
		},
		SeasonalAnalysis: SeasonalAnalysis{AvgPriceBySeason: make(map[string]float64)},
	}

	for crop, idx := range groupBy(f.Column(commodity.ColumnCropType)) {
		vals := pick(prices, idx)
		s := Describe(vals)
		p.PriceAnalysis.ByCrop[crop] = CropPrice{Count: len(idx), Mean: s.Mean, Min: s.Min, Max: s.Max}
	}
	seasons := groupBy(f.Column(commodity.ColumnSeason))
	for season, idx := range seasons {
		p.SeasonalAnalysis.Seasons = append(p.SeasonalAnalysis.Seasons, season)
		p.SeasonalAnalysis.AvgPriceBySeason[season] = Describe(pick(prices, idx)).Mean
	}
	slices.Sort(p.SeasonalAnalysis.Seasons)
	return p
}

// Save writes the profile as indented JSON
func (p Profile) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create statistics directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func dateRange(f *Frame) DateRange {
	var r DateRange
	for _, d := range f.Column(commodity.ColumnDate) {
		if d == "" {
			continue
		}
		if r.Start == "" || d < r.Start {
			r.Start = d
		}
		if d > r.End {
			r.End = d
		}
	}
	return r
}

func distribution(values []string) Distribution {
	d := Distribution{Counts: make(map[string]int)}
	for _, vc := range ValueCounts(values) {
		d.Counts[vc.Value] = vc.Count
	}
	d.Total = len(d.Counts)
	return d
}

func groupBy(values []string) map[string][]int {
	groups := make(map[string][]int)
	for i, v := range values {
		if v != "" {
			groups[v] = append(groups[v], i)
		}
	}
	return groups
}

func pick(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

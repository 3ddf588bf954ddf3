package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
)

// Check names, in execution order
const (
	CheckMissingValues    = "Missing Values"
	CheckDuplicateRecords = "Duplicate Records"
	CheckQuantityValidity = "Quantity Validity"
	CheckCategorical      = "Categorical Values"
	CheckPriceOutliers    = "Price Outliers"
	CheckDistribution     = "Data Distribution"
)

// Defaults of the validator
const (
	DefaultOutlierFactor     = 1.5
	DefaultMaxQuantityKg     = 100000
	DefaultMinRegionSharePct = 5.0
	maxExamples              = 5
)

// CheckResult is the outcome of one quality check
type CheckResult struct {
	Name    string   `json:"name"`
	Passed  bool     `json:"passed"`
	Details []string `json:"details"`
}

// QuantityStatistics summarizes quantity_kg
type QuantityStatistics struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// UniqueValues counts distinct categorical values
type UniqueValues struct {
	Crops     int `json:"crops"`
	Regions   int `json:"regions"`
	Qualities int `json:"qualities"`
	Seasons   int `json:"seasons"`
}

// Statistics describes a cleaned dataset
type Statistics struct {
	TotalRecords       int                `json:"total_records"`
	DateRange          string             `json:"date_range"`
	PriceStatistics    Summary            `json:"price_statistics"`
	QuantityStatistics QuantityStatistics `json:"quantity_statistics"`
	UniqueValues       UniqueValues       `json:"unique_values"`
}

// QualityReport is the result of a validation run
type QualityReport struct {
	Timestamp     time.Time     `json:"timestamp"`
	Checks        []CheckResult `json:"checks"`
	IssuesFound   int           `json:"issues_found"`
	IssuesFixed   int           `json:"issues_fixed"`
	RecordsBefore int           `json:"records_before"`
	RecordsAfter  int           `json:"records_after"`
	Statistics    *Statistics   `json:"statistics,omitempty"`
}

// Passed reports whether every check passed
func (r *QualityReport) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Save writes the report as indented JSON, creating parent directories
func (r *QualityReport) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validator cleans a dataset and reports what it changed
type Validator struct {
	logger        *zap.Logger
	outlierFactor float64
	minQuantity   float64
	maxQuantity   float64
	minRegionPct  float64
	now           func() time.Time
}

// ValidatorOption configures a Validator
type ValidatorOption func(*Validator)

// WithLogger sets the validator logger
func WithLogger(l *zap.Logger) ValidatorOption {
	return func(v *Validator) { v.logger = l }
}

// WithOutlierFactor sets the IQR multiplier
func WithOutlierFactor(f float64) ValidatorOption {
	return func(v *Validator) { v.outlierFactor = f }
}

// WithQuantityBounds sets the accepted quantity range (min exclusive, max inclusive)
func WithQuantityBounds(min, max float64) ValidatorOption {
	return func(v *Validator) {
		v.minQuantity = min
		v.maxQuantity = max
	}
}

// WithClock overrides the report timestamp source
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) { v.now = now }
}

// NewValidator creates a validator with the default thresholds
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		logger:        zap.NewNop(),
		outlierFactor: DefaultOutlierFactor,
		maxQuantity:   DefaultMaxQuantityKg,
		minRegionPct:  DefaultMinRegionSharePct,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every check on a copy of f and returns the cleaned frame and
// the report, including statistics of the cleaned frame.
func (v *Validator) Validate(f *Frame) (*Frame, *QualityReport) {
	report := &QualityReport{
		Timestamp:     v.now(),
		Checks:        make([]CheckResult, 0, 6),
		RecordsBefore: f.Len(),
	}

	df := f.Clone()
	df = v.checkMissing(df, report)
	df = v.checkDuplicates(df, report)
	df = v.checkQuantity(df, report)
	df = v.checkCategorical(df, report)
	df = v.checkOutliers(df, report)
	v.checkDistribution(df, report)

	report.RecordsAfter = df.Len()
	stats := ComputeStatistics(df)
	report.Statistics = &stats

	v.logger.Info("Dataset validated",
		zap.Int("records_before", report.RecordsBefore),
		zap.Int("records_after", report.RecordsAfter),
		zap.Int("issues_found", report.IssuesFound),
		zap.Int("issues_fixed", report.IssuesFixed),
	)
	return df, report
}

// ValidateFile validates the dataset at path, writes the cleaned data back
// to path and saves the report to reportPath when it is not empty.
func (v *Validator) ValidateFile(ctx context.Context, path, reportPath string) (*QualityReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, errs, err := ReadCSVFile(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	if errs.HasErrors() {
		v.logger.Warn("Dataset has unreadable cells",
			zap.String("path", path),
			zap.Int("errors", errs.TotalCount()),
		)
	}
	v.logger.Info("Dataset loaded", zap.String("path", path), zap.Int("records", f.Len()))

	cleaned, report := v.Validate(f)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cleaned.WriteCSVFile(path); err != nil {
		return nil, fmt.Errorf("save cleaned dataset: %w", err)
	}
	if reportPath != "" {
		if err := report.Save(reportPath); err != nil {
			return nil, fmt.Errorf("save validation report: %w", err)
		}
	}
	return report, nil
}

func (v *Validator) checkMissing(df *Frame, report *QualityReport) *Frame {
	check := CheckResult{Name: CheckMissingValues, Passed: true}

	for _, col := range df.Header() {
		cells := df.Column(col)
		missing := 0
		for _, c := range cells {
			if c == "" {
				missing++
			}
		}
		if missing == 0 {
			continue
		}
		if check.Passed {
			check.Passed = false
			report.IssuesFound++
		}
		check.Details = append(check.Details, fmt.Sprintf("Column '%s' has %d missing values (%.1f%%)",
			col, missing, percent(missing, df.Len())))

		fill, ok := fillValue(col, cells)
		if !ok {
			continue
		}
		for i, c := range cells {
			if c == "" {
				df.Set(i, col, fill)
			}
		}
		report.IssuesFixed++
	}

	if check.Passed {
		check.Details = append(check.Details, "No missing values found")
	}
	report.Checks = append(report.Checks, check)
	return df
}

func fillValue(col string, cells []string) (string, bool) {
	switch col {
	case commodity.ColumnMarketPrice:
		m := Median(floatsOf(cells))
		if math.IsNaN(m) {
			return "", false
		}
		return FormatFloat(m), true
	case commodity.ColumnWeather, commodity.ColumnMarketDemand, commodity.ColumnSeason:
		return commodity.UnknownValue, true
	default:
		return Mode(cells)
	}
}

func (v *Validator) checkDuplicates(df *Frame, report *QualityReport) *Frame {
	check := CheckResult{Name: CheckDuplicateRecords, Passed: true}

	seen := make(map[string]struct{}, df.Len())
	out, removed := df.Filter(func(i int) bool {
		key := rowKey(df.Row(i))
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})

	if removed > 0 {
		check.Passed = false
		report.IssuesFound++
		check.Details = append(check.Details, fmt.Sprintf("Found %d duplicate records", removed))
		report.IssuesFixed++
		check.Details = append(check.Details, "Duplicates removed")
	} else {
		check.Details = append(check.Details, "No duplicates found")
	}
	report.Checks = append(report.Checks, check)
	return out
}

func rowKey(row []string) string {
	return strings.Join(row, "\x1f")
}

func (v *Validator) checkQuantity(df *Frame, report *QualityReport) *Frame {
	check := CheckResult{Name: CheckQuantityValidity, Passed: true}

	qty := df.Quantities()
	out, removed := df.Filter(func(i int) bool {
		q := qty[i]
		return math.IsNaN(q) || (q > v.minQuantity && q <= v.maxQuantity)
	})

	if removed > 0 {
		check.Passed = false
		report.IssuesFound++
		check.Details = append(check.Details, fmt.Sprintf("Found %d invalid quantities", removed))
		report.IssuesFixed++
		check.Details = append(check.Details, "Invalid quantities removed")
	} else {
		check.Details = append(check.Details, "All quantities are valid")
	}
	report.Checks = append(report.Checks, check)
	return out
}

func (v *Validator) checkCategorical(df *Frame, report *QualityReport) *Frame {
	check := CheckResult{Name: CheckCategorical, Passed: true}

	for _, vc := range commodity.ValidatedColumns {
		if !df.Has(vc.Column) {
			continue
		}
		cells := df.Column(vc.Column)
		var examples []string
		seen := make(map[string]struct{})
		next, removed := df.Filter(func(i int) bool {
			if vc.Vocabulary.Contains(cells[i]) {
				return true
			}
			if _, ok := seen[cells[i]]; !ok && len(examples) < maxExamples {
				seen[cells[i]] = struct{}{}
				examples = append(examples, strconv.Quote(cells[i]))
			}
			return false
		})
		if removed == 0 {
			continue
		}
		check.Passed = false
		report.IssuesFound++
		check.Details = append(check.Details, fmt.Sprintf("Column '%s' has invalid values: [%s]",
			vc.Column, strings.Join(examples, ", ")))
		report.IssuesFixed++
		df = next
	}

	if check.Passed {
		check.Details = append(check.Details, "All categorical values are valid")
	}
	report.Checks = append(report.Checks, check)
	return df
}

func (v *Validator) checkOutliers(df *Frame, report *QualityReport) *Frame {
	check := CheckResult{Name: CheckPriceOutliers, Passed: true}

	prices := df.Prices()
	sorted := present(prices)
	if len(sorted) == 0 {
		check.Details = append(check.Details, "No price outliers found")
		report.Checks = append(report.Checks, check)
		return df
	}

	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	iqr := q3 - q1
	lower := q1 - v.outlierFactor*iqr
	upper := q3 + v.outlierFactor*iqr

	var examples []string
	out, removed := df.Filter(func(i int) bool {
		p := prices[i]
		if p < lower || p > upper {
			if len(examples) < maxExamples {
				examples = append(examples, FormatFloat(p))
			}
			return false
		}
		return true
	})

	if removed > 0 {
		check.Passed = false
		report.IssuesFound++
		check.Details = append(check.Details,
			fmt.Sprintf("Found %d price outliers (%.1f%%)", removed, percent(removed, df.Len())),
			fmt.Sprintf("Example outliers: [%s]", strings.Join(examples, ", ")),
		)
		report.IssuesFixed++
		check.Details = append(check.Details, fmt.Sprintf("Removed %d outliers", removed))
	} else {
		check.Details = append(check.Details, "No price outliers found")
	}
	report.Checks = append(report.Checks, check)
	return out
}

func (v *Validator) checkDistribution(df *Frame, report *QualityReport) {
	check := CheckResult{Name: CheckDistribution, Passed: true}
	defer func() { report.Checks = append(report.Checks, check) }()

	if df.Len() == 0 {
		check.Details = append(check.Details, "No records to analyze")
		return
	}

	check.Details = append(check.Details, "Crop types distribution:")
	for _, c := range ValueCounts(df.Column(commodity.ColumnCropType)) {
		check.Details = append(check.Details, fmt.Sprintf("  - %s: %d records (%.1f%%)",
			c.Value, c.Count, percent(c.Count, df.Len())))
	}

	regions := ValueCounts(df.Column(commodity.ColumnRegion))
	if len(regions) == 0 {
		return
	}
	minPct := percent(regions[len(regions)-1].Count, df.Len())
	if minPct < v.minRegionPct {
		check.Passed = false
		check.Details = append(check.Details, fmt.Sprintf("Warning: Unbalanced regional data (min: %.1f%%)", minPct))
	}
}

// ComputeStatistics describes a dataset
func ComputeStatistics(df *Frame) Statistics {
	price := Describe(df.Prices())
	qty := Describe(df.Quantities())

	var minDate, maxDate string
	for _, d := range df.Column(commodity.ColumnDate) {
		if d == "" {
			continue
		}
		if minDate == "" || d < minDate {
			minDate = d
		}
		if d > maxDate {
			maxDate = d
		}
	}

	return Statistics{
		TotalRecords:    df.Len(),
		DateRange:       fmt.Sprintf("%s to %s", minDate, maxDate),
		PriceStatistics: price,
		QuantityStatistics: QuantityStatistics{
			Mean:   qty.Mean,
			Median: qty.Median,
			Min:    qty.Min,
			Max:    qty.Max,
		},
		UniqueValues: UniqueValues{
			Crops:     Unique(df.Column(commodity.ColumnCropType)),
			Regions:   Unique(df.Column(commodity.ColumnRegion)),
			Qualities: Unique(df.Column(commodity.ColumnQuality)),
			Seasons:   Unique(df.Column(commodity.ColumnSeason)),
		},
	}
}

func floatsOf(cells []string) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		out[i] = parseFloat(c)
	}
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

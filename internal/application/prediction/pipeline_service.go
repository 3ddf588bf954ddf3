package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/datagen"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/dataset"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// File names inside the pipeline data directory
const (
	OriginalFile         = "crop_prices.csv"
	ExpandedFile         = "crop_prices_expanded.csv"
	CombinedFile         = "crop_prices_final.csv"
	ValidationReportFile = "validation_report.json"
	StatisticsFile       = "dataset_statistics.json"
	PipelineLogFile      = "pipeline_log.json"
)

// Pipeline step names
const (
	StepGenerate   = "Generate Data"
	StepMerge      = "Merge Data"
	StepValidate   = "Validate Data"
	StepStatistics = "Generate Statistics"
)

// Pipeline and step statuses
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	StepCompleted = "COMPLETED"
	StepFailed    = "FAILED"
)

// DefaultPipelineRecords is the number of records generated when none is given
const DefaultPipelineRecords = 500

// PipelineStep is one entry of the pipeline log
type PipelineStep struct {
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details"`
}

// PipelineLog records a pipeline run
type PipelineLog struct {
	Timestamp      time.Time      `json:"timestamp"`
	StepsCompleted []PipelineStep `json:"steps_completed"`
	Status         string         `json:"status"`
}

// PipelineResult is returned by a pipeline run
type PipelineResult struct {
	Log        PipelineLog            `json:"log"`
	Report     *dataset.QualityReport `json:"validation_report,omitempty"`
	Statistics *dataset.Profile       `json:"statistics,omitempty"`
	OutputFile string                 `json:"output_file"`
}

// PipelineService prepares the training dataset: generate, merge, validate
// and describe.
type PipelineService struct {
	cfg       config.PipelineConfig
	generator *datagen.Generator
	validator *dataset.Validator
	logger    *zap.Logger
	now       func() time.Time

	// serializes runs and validations, which share the generator and the
	// files of the data directory
	runMu sync.Mutex
}

// PipelineServiceOption configures a PipelineService
type PipelineServiceOption func(*PipelineService)

// WithGenerator replaces the synthetic data generator
func WithGenerator(g *datagen.Generator) PipelineServiceOption {
	return func(s *PipelineService) { s.generator = g }
}

// WithPipelineLogger sets the service logger
func WithPipelineLogger(l *zap.Logger) PipelineServiceOption {
	return func(s *PipelineService) { s.logger = l }
}

// WithPipelineClock overrides the clock of the pipeline log
func WithPipelineClock(now func() time.Time) PipelineServiceOption {
	return func(s *PipelineService) { s.now = now }
}

// NewPipelineService creates a new PipelineService
func NewPipelineService(cfg config.PipelineConfig, opts ...PipelineServiceOption) *PipelineService {
	s := &PipelineService{
		cfg:    cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		s.generator = datagen.New(datagen.WithLogger(s.logger))
	}
	s.validator = dataset.NewValidator(dataset.WithLogger(s.logger), dataset.WithClock(s.now))
	return s
}

func (s *PipelineService) path(name string) string {
	return filepath.Join(s.cfg.DataDir, name)
}

// Validate cleans the combined dataset in place and saves the quality report
func (s *PipelineService) Validate(ctx context.Context) (*dataset.QualityReport, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.validate(ctx)
}

func (s *PipelineService) validate(ctx context.Context) (*dataset.QualityReport, error) {
	report, err := s.validator.ValidateFile(ctx, s.path(CombinedFile), s.path(ValidationReportFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.ErrNoData.Wrap("dataset not found: "+s.path(CombinedFile), err)
	}
	return report, err
}

// Run executes every step in order and stops at the first failure. The
// pipeline log is saved in both cases.
func (s *PipelineService) Run(ctx context.Context, records int) (*PipelineResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PipelineService", "Run",
		telemetry.WithAttribute(telemetry.SpanAttrRecordRows, records),
	)
	defer span.End()

	s.runMu.Lock()
	defer s.runMu.Unlock()

	if records <= 0 {
		records = s.cfg.GenerateRecords
	}
	if records <= 0 {
		records = DefaultPipelineRecords
	}

	result := &PipelineResult{
		Log: PipelineLog{
			Timestamp:      s.now(),
			StepsCompleted: []PipelineStep{},
			Status:         StatusRunning,
		},
		OutputFile: s.path(CombinedFile),
	}

	s.logger.Info("Starting data pipeline",
		zap.String("data_dir", s.cfg.DataDir),
		zap.Int("records", records),
	)

	steps := []struct {
		name string
		run  func(context.Context) (map[string]any, error)
	}{
		{StepGenerate, func(ctx context.Context) (map[string]any, error) { return s.generate(ctx, records) }},
		{StepMerge, s.merge},
		{StepValidate, func(ctx context.Context) (map[string]any, error) {
			report, err := s.validate(ctx)
			if err != nil {
				return nil, err
			}
			result.Report = report
			return map[string]any{
				"records_after_cleaning": report.RecordsAfter,
				"issues_found":           report.IssuesFound,
				"issues_fixed":           report.IssuesFixed,
				"report_file":            s.path(ValidationReportFile),
			}, nil
		}},
		{StepStatistics, func(ctx context.Context) (map[string]any, error) {
			profile, details, err := s.statistics(ctx)
			if err != nil {
				return nil, err
			}
			result.Statistics = profile
			return details, nil
		}},
	}

	for _, step := range steps {
		details, err := step.run(ctx)
		if err != nil {
			s.logStep(&result.Log, step.name, StepFailed, map[string]any{"error": err.Error()})
			result.Log.Status = StatusFailed
			if saveErr := s.saveLog(result.Log); saveErr != nil {
				s.logger.Warn("Failed to save pipeline log", zap.Error(saveErr))
			}
			telemetry.RecordError(span, err)
			s.logger.Error("Pipeline stopped", zap.String("step", step.name), zap.Error(err))
			return result, fmt.Errorf("%s: %w", step.name, err)
		}
		s.logStep(&result.Log, step.name, StepCompleted, details)
	}

	result.Log.Status = StatusCompleted
	if err := s.saveLog(result.Log); err != nil {
		telemetry.RecordError(span, err)
		return result, fmt.Errorf("save pipeline log: %w", err)
	}

	telemetry.SetOK(span)
	s.logger.Info("Pipeline completed",
		zap.Int("steps", len(result.Log.StepsCompleted)),
		zap.String("output_file", result.OutputFile),
	)
	return result, nil
}

func (s *PipelineService) generate(ctx context.Context, n int) (map[string]any, error) {
	frame, err := s.generator.GenerateFile(ctx, n, s.path(ExpandedFile))
	if err != nil {
		return nil, err
	}
	stats := dataset.ComputeStatistics(frame)
	return map[string]any{
		"records_generated": frame.Len(),
		"output_file":       s.path(ExpandedFile),
		"date_range":        stats.DateRange,
	}, nil
}

func (s *PipelineService) merge(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	original := 0
	if f, _, err := dataset.ReadCSVFile(s.path(OriginalFile)); err == nil {
		original = f.Len()
	}

	merged, err := dataset.MergeFiles(s.path(OriginalFile), s.path(ExpandedFile), s.path(CombinedFile))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"total_records":    merged.Len(),
		"original_records": original,
		"expansion":        fmt.Sprintf("%d records added", merged.Len()-original),
		"output_file":      s.path(CombinedFile),
	}, nil
}

func (s *PipelineService) statistics(ctx context.Context) (*dataset.Profile, map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	frame, _, err := dataset.ReadCSVFile(s.path(CombinedFile))
	if err != nil {
		return nil, nil, err
	}
	profile := dataset.BuildProfile(frame)
	if err := profile.Save(s.path(StatisticsFile)); err != nil {
		return nil, nil, err
	}
	return &profile, map[string]any{
		"total_records":   profile.TotalRecords,
		"unique_crops":    len(profile.Crops.Counts),
		"unique_regions":  len(profile.Regions.Counts),
		"statistics_file": s.path(StatisticsFile),
	}, nil
}

func (s *PipelineService) logStep(log *PipelineLog, name, status string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	log.StepsCompleted = append(log.StepsCompleted, PipelineStep{
		Name:      name,
		Status:    status,
		Timestamp: s.now(),
		Details:   details,
	})
	s.logger.Info("Pipeline step", zap.String("step", name), zap.String("status", status), zap.Any("details", details))
}

func (s *PipelineService) saveLog(log PipelineLog) error {
	if err := os.MkdirAll(s.cfg.DataDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(PipelineLogFile), data, 0o644)
}

package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// PriceMetrics tracks predictions, cache behaviour, training runs and
// background jobs. A nil *PriceMetrics records nothing.
type PriceMetrics struct {
	predictionsTotal   metric.Int64Counter
	predictionDuration metric.Float64Histogram
	cacheLookups       metric.Int64Counter
	trainingRuns       metric.Int64Counter
	trainingDuration   metric.Float64Histogram
	modelR2            metric.Float64Gauge
	jobsTotal          metric.Int64Counter
}

// NewPriceMetrics registers the prediction service instruments on meter.
func NewPriceMetrics(meter metric.Meter) (*PriceMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	in := NewInstruments(meter)
	m := &PriceMetrics{
		predictionsTotal: in.Counter("price_predictions_total", "Price predictions served by method", "{prediction}"),
		predictionDuration: in.Histogram("price_prediction_duration_seconds",
			"Time to compute a price prediction", "s", PredictionDurationBuckets),
		cacheLookups: in.Counter("price_cache_lookups_total", "Prediction cache lookups by result", "{lookup}"),
		trainingRuns: in.Counter("model_training_runs_total", "Model training runs by status", "{run}"),
		trainingDuration: in.Histogram("model_training_duration_seconds",
			"Wall time of a model training run", "s", TrainingDurationBuckets),
		modelR2:   in.Gauge("model_test_r2", "Test R2 of the active model", "1"),
		jobsTotal: in.Counter("scheduler_jobs_total", "Background jobs by type and status", "{job}"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordPrediction counts one served prediction and its latency.
func (m *PriceMetrics) RecordPrediction(ctx context.Context, method, cropType string, d time.Duration) {
	if m == nil {
		return
	}
	m.predictionsTotal.Add(ctx, 1, attrs(AttrMethod.String(method), AttrCropType.String(cropType)))
	m.predictionDuration.Record(ctx, d.Seconds(), attrs(AttrMethod.String(method)))
}

// RecordCacheLookup counts a cache hit or miss.
func (m *PriceMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Add(ctx, 1, attrs(AttrCacheResult.String(result)))
}

// RecordTraining counts a training run. r2 is recorded only on success.
func (m *PriceMetrics) RecordTraining(ctx context.Context, modelType, trigger string, d time.Duration, r2 float64, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.trainingRuns.Add(ctx, 1, attrs(AttrModelType.String(modelType), AttrTrigger.String(trigger), AttrStatus.String(status)))
	m.trainingDuration.Record(ctx, d.Seconds(), attrs(AttrModelType.String(modelType)))
	if err == nil {
		m.modelR2.Record(ctx, r2, attrs(AttrModelType.String(modelType)))
	}
}

// RecordJob counts a finished background job.
func (m *PriceMetrics) RecordJob(ctx context.Context, jobType, status string) {
	if m == nil {
		return
	}
	m.jobsTotal.Add(ctx, 1, attrs(AttrJobType.String(jobType), AttrStatus.String(status)))
}

// ErrMeterNil is returned when NewPriceMetrics gets a nil meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

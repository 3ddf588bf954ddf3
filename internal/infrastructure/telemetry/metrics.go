package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultMetricsInterval = 60 * time.Second

// MeterProvider owns the metric pipeline. When export is disabled Meter
// hands out the global meter, which is a no-op unless a test installs one.
type MeterProvider struct {
	sdk    *sdkmetric.MeterProvider
	logger *zap.Logger
}

// NewMeterProvider starts a periodic OTLP metric reader and installs the
// provider globally.
func NewMeterProvider(ctx context.Context, cfg ExportConfig, logger *zap.Logger) (*MeterProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mp := &MeterProvider{logger: logger}
	if !cfg.Enabled {
		logger.Info("Metrics disabled")
		return mp, nil
	}

	interval := cfg.MetricsInterval
	if interval <= 0 {
		interval = defaultMetricsInterval
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP metric exporter: %w", err)
	}
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}

	mp.sdk = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.sdk)

	logger.Info("Metrics enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return mp, nil
}

// Meter returns a named meter.
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.sdk == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.sdk.Meter(name, opts...)
}

func (mp *MeterProvider) IsEnabled() bool { return mp.sdk != nil }

// Shutdown exports what is pending and stops the reader.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.sdk == nil {
		return nil
	}
	return stopProvider(ctx, "metrics", mp.sdk, mp.logger)
}

// Instruments registers instruments on one meter and remembers every
// failure, so a block of registrations is checked once through Err. A
// failed registration yields a no-op instrument.
type Instruments struct {
	meter metric.Meter
	errs  []error
}

// NewInstruments returns a builder over meter.
func NewInstruments(meter metric.Meter) *Instruments {
	return &Instruments{meter: meter}
}

func (in *Instruments) fail(name string, err error) {
	in.errs = append(in.errs, fmt.Errorf("register %s: %w", name, err))
}

// Counter registers a monotonic int64 counter.
func (in *Instruments) Counter(name, description, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.fail(name, err)
		return noop.Int64Counter{}
	}
	return c
}

// UpDownCounter registers an int64 counter that may decrease.
func (in *Instruments) UpDownCounter(name, description, unit string) metric.Int64UpDownCounter {
	c, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.fail(name, err)
		return noop.Int64UpDownCounter{}
	}
	return c
}

// Histogram registers a float64 histogram with explicit bucket bounds.
func (in *Instruments) Histogram(name, description, unit string, bounds []float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(description), metric.WithUnit(unit)}
	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}
	h, err := in.meter.Float64Histogram(name, opts...)
	if err != nil {
		in.fail(name, err)
		return noop.Float64Histogram{}
	}
	return h
}

// Gauge registers a synchronous float64 gauge.
func (in *Instruments) Gauge(name, description, unit string) metric.Float64Gauge {
	g, err := in.meter.Float64Gauge(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.fail(name, err)
		return noop.Float64Gauge{}
	}
	return g
}

// Err joins every registration failure seen so far.
func (in *Instruments) Err() error {
	return errors.Join(in.errs...)
}

// attrs is shorthand for a measurement option carrying kv.
func attrs(kv ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(kv...)
}

// Metric attribute keys.
var (
	AttrMethod      = attribute.Key("method")
	AttrCropType    = attribute.Key("crop_type")
	AttrModelType   = attribute.Key("model_type")
	AttrTrigger     = attribute.Key("trigger")
	AttrStatus      = attribute.Key("status")
	AttrCacheResult = attribute.Key("cache_result")
	AttrJobType     = attribute.Key("job_type")

	AttrDBOperation = attribute.Key("db.operation")
	AttrDBTable     = attribute.Key("db.table")
	AttrDBState     = attribute.Key("db.pool.state")
)

// Histogram bucket boundaries in seconds.
var (
	PredictionDurationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
	TrainingDurationBuckets   = []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}
	DBDurationBuckets         = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
)

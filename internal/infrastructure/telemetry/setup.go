package telemetry

import (
	"context"
	"errors"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Telemetry bundles every provider the service starts.
type Telemetry struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
	Metrics  *PriceMetrics
}

// Setup starts tracing, metrics, the log bridge and profiling from cfg.
// Each piece degrades to a no-op when disabled. On error everything already
// started is shut down.
func Setup(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Telemetry, error) {
	t := &Telemetry{}
	tc := cfg.Telemetry

	export := ExportConfig{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		Insecure:          tc.Insecure,
		ServiceName:       tc.ServiceName,
		ServiceVersion:    cfg.App.Version,
		SamplingRatio:     tc.SamplingRatio,
		MetricsInterval:   tc.MetricsInterval,
	}

	var err error
	if t.Tracer, err = NewTracerProvider(ctx, export, logger); err != nil {
		return nil, err
	}
	if t.Meter, err = NewMeterProvider(ctx, export, logger); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	if t.Logs, err = NewLoggerProvider(ctx, export, logger); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}

	t.Profiler, err = NewProfiler(ProfilerConfig{
		Enabled:         cfg.Profiling.Enabled,
		ServerAddress:   cfg.Profiling.ServerAddress,
		ApplicationName: tc.ServiceName,
		ProfileMemory:   true,
		Tags:            map[string]string{"env": cfg.App.Env},
	}, logger)
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles {
		if err := t.Tracer.EnableSpanProfiles(); err != nil {
			logger.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	t.Metrics, err = NewPriceMetrics(t.Meter.Meter(TracerName))
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}

	return t, nil
}

// Logger returns base teed into the OTEL log pipeline when enabled.
func (t *Telemetry) Logger(base *zap.Logger, level zapcore.Level) *zap.Logger {
	return BridgeLogger(base, t.Logs, level)
}

// Shutdown stops every started provider, joining their errors.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Profiler != nil {
		errs = append(errs, t.Profiler.Stop())
	}
	if t.Logs != nil {
		errs = append(errs, t.Logs.Shutdown(ctx))
	}
	if t.Meter != nil {
		errs = append(errs, t.Meter.Shutdown(ctx))
	}
	if t.Tracer != nil {
		errs = append(errs, t.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

package telemetry

import (
	"context"
	"testing"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetup_Disabled(t *testing.T) {
	cfg := &config.Config{
		App:       config.AppConfig{Name: "test", Env: "test", Version: "0.0.1"},
		Telemetry: config.TelemetryConfig{ServiceName: "crop-price-service"},
	}
	base := zap.NewNop()

	tel, err := Setup(context.Background(), cfg, base)
	require.NoError(t, err)

	assert.False(t, tel.Tracer.IsEnabled())
	assert.False(t, tel.Meter.IsEnabled())
	assert.False(t, tel.Logs.IsEnabled())
	assert.False(t, tel.Profiler.IsEnabled())
	require.NotNil(t, tel.Metrics)
	assert.Same(t, base, tel.Logger(base, zapcore.InfoLevel))

	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", sampler(1).Description())
	assert.Equal(t, "AlwaysOffSampler", sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

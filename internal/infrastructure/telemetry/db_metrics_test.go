package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestDBMetrics_RecordQuery(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewDBMetrics(provider.Meter("test"), nil, 100*time.Millisecond)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuery(ctx, "select", "prediction_logs", 10*time.Millisecond)
	m.RecordQuery(ctx, "INSERT", "prediction_logs", 300*time.Millisecond)
	m.RecordQuery(ctx, "", "", 300*time.Millisecond)

	rm := collect(t, reader)
	total, ok := findMetric(rm, "db_query_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), sumFor(t, total, AttrDBOperation, "SELECT"))
	assert.Equal(t, int64(1), sumFor(t, total, AttrDBOperation, "UNKNOWN"))

	slow, ok := findMetric(rm, "db_slow_query_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), sumFor(t, slow, AttrDBTable, "prediction_logs"))
	assert.Equal(t, int64(1), sumFor(t, slow, AttrDBTable, "unknown"))
}

func TestDBMetrics_PluginAndPoolGauge(t *testing.T) {
	reader, provider := newTestMeter(t)
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := NewDBMetrics(provider.Meter("test"), sqlDB, 0)
	require.NoError(t, err)
	t.Cleanup(m.Stop)
	require.NoError(t, db.Use(m))

	require.NoError(t, db.Create(&tracedRow{Name: "wheat"}).Error)
	var rows []tracedRow
	require.NoError(t, db.Find(&rows).Error)

	rm := collect(t, reader)
	total, ok := findMetric(rm, "db_query_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), sumFor(t, total, AttrDBOperation, "INSERT"))
	assert.Equal(t, int64(1), sumFor(t, total, AttrDBOperation, "SELECT"))

	pool, ok := findMetric(rm, "db_pool_connections")
	require.True(t, ok)
	gauge, ok := pool.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, gauge.DataPoints, 3)
}

func TestDBMetrics_StopIdempotent(t *testing.T) {
	_, provider := newTestMeter(t)
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := NewDBMetrics(provider.Meter("test"), sqlDB, 0)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m.Stop()
		m.Stop()
	})
}

func TestRegisterDBMetrics_DisabledProvider(t *testing.T) {
	db := setupTestDB(t)
	mp, err := NewMeterProvider(context.Background(), ExportConfig{}, nil)
	require.NoError(t, err)

	m, err := RegisterDBMetrics(db, mp, 0, nil)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM prediction_logs":   "SELECT",
		"  insert into model_versions":    "INSERT",
		"UPDATE prediction_logs SET x=1":  "UPDATE",
		"delete from prediction_logs":     "DELETE",
		"CREATE TABLE prediction_logs ()": "OTHER",
	}
	for sql, want := range tests {
		assert.Equal(t, want, detectOperationType(sql), sql)
	}
}

package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBSystemFor(t *testing.T) {
	assert.Equal(t, "sqlite", DBSystemFor("sqlite"))
	assert.Equal(t, "postgresql", DBSystemFor("postgres"))
	assert.Equal(t, "postgresql", DBSystemFor(""))
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTestDB(t)
	p := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	require.NoError(t, p.RegisterOtelGorm(db))
	assert.Nil(t, db.Callback().Create().Get("otel_timing:before_create"))
}

func TestDBTracingPlugin_AfterMarksSlowQueries(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Millisecond}, nil)

	ctx, span := tp.Tracer("test").Start(context.Background(), "query")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-50*time.Millisecond))

	db := setupTestDB(t)
	tx := db.Session(&gorm.Session{NewDB: true, Context: ctx})
	tx.Statement.Table = "prediction_logs"
	tx.Statement.RowsAffected = 3
	p.after(tx)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, int64(3), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, "prediction_logs", attrs["db.sql.table"].AsString())
	assert.True(t, attrs["db.slow_query"].AsBool())

	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "slow_query_warning", spans[0].Events()[0].Name)
}

func TestDBTracingPlugin_RegistersCallbacks(t *testing.T) {
	db := setupTestDB(t)
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: DBSystemFor("sqlite")}, zap.NewNop())

	require.NoError(t, p.RegisterOtelGorm(db))
	assert.NotNil(t, db.Callback().Query().Get("otel_timing:after_query"))
	assert.NotNil(t, db.Callback().Raw().Get("otel_timing:before_raw"))

	require.NoError(t, db.Create(&tracedRow{Name: "rice"}).Error)
	var rows []tracedRow
	require.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 1)
}

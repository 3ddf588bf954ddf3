package telemetry

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetrics records query counts, latency and connection pool state.
type DBMetrics struct {
	queryTotal     metric.Int64Counter
	queryDuration  metric.Float64Histogram
	slowQueryTotal metric.Int64Counter
	registration   metric.Registration
	slowThreshold  time.Duration
}

// NewDBMetrics creates query instruments on meter and, when sqlDB is not
// nil, an observable pool gauge read on every collection.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, slowThreshold time.Duration) (*DBMetrics, error) {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	in := NewInstruments(meter)
	m := &DBMetrics{
		queryTotal: in.Counter("db_query_total", "Database queries by operation", "{query}"),
		queryDuration: in.Histogram("db_query_duration_seconds",
			"Database query latency in seconds", "s", DBDurationBuckets),
		slowQueryTotal: in.Counter("db_slow_query_total", "Database queries above the slow threshold", "{query}"),
		slowThreshold:  slowThreshold,
	}
	if err := in.Err(); err != nil {
		return nil, err
	}

	if sqlDB != nil {
		pool, err := meter.Int64ObservableGauge("db_pool_connections",
			metric.WithDescription("Connections in the pool by state"),
			metric.WithUnit("{connection}"),
		)
		if err != nil {
			return nil, err
		}
		m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
			stats := sqlDB.Stats()
			o.ObserveInt64(pool, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
			o.ObserveInt64(pool, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
			o.ObserveInt64(pool, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
			return nil
		}, pool)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordQuery records metrics for one database statement.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "UNKNOWN"
	}

	m.queryTotal.Add(ctx, 1, attrs(AttrDBOperation.String(operation)))
	m.queryDuration.Record(ctx, duration.Seconds(), attrs(AttrDBOperation.String(operation)))

	if duration > m.slowThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Add(ctx, 1, attrs(AttrDBTable.String(table)))
	}
}

// Stop unregisters the pool callback. Safe to call more than once.
func (m *DBMetrics) Stop() {
	if m.registration != nil {
		_ = m.registration.Unregister()
		m.registration = nil
	}
}

// Name implements gorm.Plugin.
func (m *DBMetrics) Name() string {
	return "db_metrics"
}

// Initialize implements gorm.Plugin.
func (m *DBMetrics) Initialize(db *gorm.DB) error {
	return registerAround(db, "db_metrics",
		func(db *gorm.DB) {
			ctx := db.Statement.Context
			if ctx == nil {
				ctx = context.Background()
			}
			db.Statement.Context = context.WithValue(ctx, dbMetricsStartTimeKey, time.Now())
		},
		func(db *gorm.DB) {
			ctx := db.Statement.Context
			if ctx == nil {
				return
			}
			var elapsed time.Duration
			if start, ok := ctx.Value(dbMetricsStartTimeKey).(time.Time); ok {
				elapsed = time.Since(start)
			}
			m.RecordQuery(ctx, detectOperationType(db.Statement.SQL.String()), db.Statement.Table, elapsed)
		},
	)
}

func detectOperationType(sql string) string {
	sql = strings.TrimSpace(strings.ToUpper(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}

type dbMetricsContextKey string

const dbMetricsStartTimeKey dbMetricsContextKey = "db_metrics_start_time"

// RegisterDBMetrics attaches query and pool metrics to db. It is a no-op
// returning nil when the meter provider is disabled.
func RegisterDBMetrics(db *gorm.DB, mp *MeterProvider, slowThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if mp == nil || !mp.IsEnabled() {
		return nil, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	m, err := NewDBMetrics(mp.Meter("db.client"), sqlDB, slowThreshold)
	if err != nil {
		return nil, err
	}
	if err := db.Use(m); err != nil {
		m.Stop()
		return nil, err
	}

	if logger != nil {
		logger.Info("Database metrics registered", zap.Duration("slow_query_threshold", m.slowThreshold))
	}
	return m, nil
}

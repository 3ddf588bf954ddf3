package middleware

import (
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTP metric attribute keys
const (
	attrHTTPMethod     = attribute.Key("http.method")
	attrHTTPRoute      = attribute.Key("http.route")
	attrHTTPStatusCode = attribute.Key("http.status_code")
	attrHTTPStatusGrp  = attribute.Key("http.status_group")
)

// httpDurationBuckets are latency boundaries in seconds. Training requests
// run for tens of seconds, so the tail is long.
var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

var sizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}

type httpMetrics struct {
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	requestSize  metric.Float64Histogram
	responseSize metric.Float64Histogram
	inFlight     metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	in := telemetry.NewInstruments(meter)
	m := &httpMetrics{
		requests: in.Counter("http_server_request_total", "HTTP requests by route and status", "{request}"),
		duration: in.Histogram("http_server_request_duration_seconds",
			"HTTP request latency in seconds", "s", httpDurationBuckets),
		requestSize: in.Histogram("http_server_request_size_bytes",
			"HTTP request body size in bytes", "By", sizeBuckets),
		responseSize: in.Histogram("http_server_response_size_bytes",
			"HTTP response body size in bytes", "By", sizeBuckets),
		inFlight: in.UpDownCounter("http_server_active_requests", "HTTP requests being served", "{request}"),
	}
	return m, in.Err()
}

// HTTPMetrics returns a middleware recording request count, latency, body
// sizes and in-flight requests. Routes are recorded by pattern to keep
// cardinality low. A nil or disabled provider yields a pass-through.
func HTTPMetrics(mp *telemetry.MeterProvider) gin.HandlerFunc {
	if mp == nil || !mp.IsEnabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return HTTPMetricsWithMeter(mp.Meter("http.server"))
}

// HTTPMetricsWithMeter returns HTTP metrics middleware using an existing meter.
func HTTPMetricsWithMeter(meter metric.Meter) gin.HandlerFunc {
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		m.inFlight.Add(ctx, 1)
		c.Next()
		m.inFlight.Add(ctx, -1)

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		byRoute := metric.WithAttributes(
			attrHTTPMethod.String(c.Request.Method),
			attrHTTPRoute.String(route),
		)

		m.requests.Add(ctx, 1, byRoute, metric.WithAttributes(
			attrHTTPStatusCode.Int(status),
			attrHTTPStatusGrp.String(HTTPMetricsStatusGroup(status)),
		))
		m.duration.Record(ctx, time.Since(start).Seconds(), byRoute)

		if size := c.Request.ContentLength; size > 0 {
			m.requestSize.Record(ctx, float64(size), byRoute)
		}
		if size := c.Writer.Size(); size > 0 {
			m.responseSize.Record(ctx, float64(size), byRoute)
		}
	}
}

// HTTPMetricsStatusGroup groups status codes into classes (2xx, 4xx, 5xx).
func HTTPMetricsStatusGroup(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type staticModelStatus bool

func (s staticModelStatus) ModelLoaded() bool { return bool(s) }

func newTestSystemHandler(loaded bool) *SystemHandler {
	h := NewSystemHandler(staticModelStatus(loaded))
	h.now = func() time.Time { return time.Date(2026, 1, 23, 12, 0, 0, 0, time.UTC) }
	return h
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler(staticModelStatus(false))
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_GetServiceInfo(t *testing.T) {
	h := newTestSystemHandler(true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h.GetServiceInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var info ServiceInfoResponse
	decodeData(t, w, &info)
	assert.Equal(t, "Supply Chain ML Service", info.Service)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "running", info.Status)
	assert.True(t, info.ModelLoaded)
	assert.Equal(t, "2026-01-23T12:00:00Z", info.Timestamp)
	assert.NotEmpty(t, info.GoVersion)
	assert.Equal(t, "Health check", info.Endpoints["GET /health"])
	assert.Contains(t, info.Endpoints, "POST /api/v1/predict")
}

func TestSystemHandler_Health(t *testing.T) {
	for _, loaded := range []bool{true, false} {
		h := newTestSystemHandler(loaded)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var health HealthResponse
		decodeData(t, w, &health)
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, loaded, health.ModelLoaded)
		assert.Equal(t, "2026-01-23T12:00:00Z", health.Timestamp)
	}
}

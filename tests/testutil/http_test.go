package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoEngine() *gin.Engine {
	r := gin.New()
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{"code": "ERR_VALIDATION", "message": err.Error()}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": body})
	})
	return r
}

func TestDataAs(t *testing.T) {
	w := Do(t, echoEngine(), http.MethodPost, "/echo", map[string]any{"crop_type": "Wheat"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	got := DataAs[map[string]string](t, w)
	assert.Equal(t, "Wheat", got["crop_type"])
}

func TestRunHTTPTestCases(t *testing.T) {
	RunHTTPTestCases(t, echoEngine(), []HTTPTestCase{
		{
			Name:           "valid body",
			Method:         http.MethodPost,
			Path:           "/echo",
			Body:           map[string]any{"region": "North"},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.True(t, DecodeEnvelope(t, w).Success)
			},
		},
		{
			Name:           "missing body",
			Method:         http.MethodPost,
			Path:           "/echo",
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   "ERR_VALIDATION",
		},
	})
}

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("a"), NewTestUUID("a"))
	assert.NotEqual(t, NewTestUUID("a"), NewTestUUID("b"))
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, time.Minute)
	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, time.Second)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type labelRequest struct {
	CropType   string   `json:"crop_type" binding:"omitempty,max=50,commodity_label"`
	Month      int      `json:"month" binding:"omitempty,min=1,max=12"`
	QuantityKg *float64 `json:"quantity_kg"`
}

func newValidationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, SetupValidator())

	router := gin.New()
	router.Use(BodyLimit(256))
	router.POST("/predict", func(c *gin.Context) {
		var req labelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	})
	return router
}

func TestHandleValidationError(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantCode    string
		wantField   string
		wantMessage string
	}{
		{"valid", `{"crop_type":"Wheat","month":3}`, http.StatusOK, "", "", ""},
		{"empty body", ``, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "", "No input data provided"},
		{"malformed json", `{"crop_type":`, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "", ""},
		{"syntax error", `{crop_type}`, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "", ""},
		{"wrong type", `{"quantity_kg":"lots"}`, http.StatusBadRequest, dto.ErrCodeValidation, "quantity_kg", "Must be a float64"},
		{"padded label", `{"crop_type":" Wheat "}`, http.StatusBadRequest, dto.ErrCodeValidation, "crop_type", "Must be a plain label without surrounding spaces"},
		{"control character", `{"crop_type":"Whe\u0007at"}`, http.StatusBadRequest, dto.ErrCodeValidation, "crop_type", ""},
		{"month below range", `{"month":-1}`, http.StatusBadRequest, dto.ErrCodeValidation, "month", "Must be at least 1"},
		{"month above range", `{"month":13}`, http.StatusBadRequest, dto.ErrCodeValidation, "month", "Must be at most 12"},
		{"too large", `{"crop_type":"` + strings.Repeat("a", 400) + `"}`, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newValidationRouter(t).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode == "" {
				return
			}
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.wantMessage != "" && tt.wantField == "" {
				assert.Equal(t, tt.wantMessage, resp.Error.Message)
			}
			if tt.wantField != "" {
				require.NotEmpty(t, resp.Error.Details)
				assert.Equal(t, tt.wantField, resp.Error.Details[0].Field)
				if tt.wantMessage != "" {
					assert.Equal(t, tt.wantMessage, resp.Error.Details[0].Message)
				}
			}
		})
	}
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-1")
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Empty(t, resp.Error.Details)
}

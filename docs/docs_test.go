package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/application/prediction"
)

func TestLimitParameters_MatchServiceDefaults(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]struct {
			Parameters []struct {
				Name   string `json:"name"`
				Schema struct {
					Default int `json:"default"`
					Maximum int `json:"maximum"`
				} `json:"schema"`
			} `json:"parameters"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	for _, path := range []string{"/api/v1/predictions/recent", "/api/v1/model/versions"} {
		op, ok := doc.Paths[path]["get"]
		require.True(t, ok, path)
		require.Len(t, op.Parameters, 1, path)
		assert.Equal(t, "limit", op.Parameters[0].Name)
		assert.Equal(t, prediction.DefaultRecentLimit, op.Parameters[0].Schema.Default, path)
		assert.Equal(t, prediction.MaxRecentLimit, op.Parameters[0].Schema.Maximum, path)
	}
}

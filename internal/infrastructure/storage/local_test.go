package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalArtifactStore(t *testing.T) {
	root := filepath.Join(t.TempDir(), "models")
	s, err := NewLocalArtifactStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "price_model.gob", []byte("bundle"), ContentTypeGob))

		data, err := s.Get(ctx, "price_model.gob")
		require.NoError(t, err)
		assert.Equal(t, []byte("bundle"), data)

		ok, err := s.Exists(ctx, "price_model.gob")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(root, "price_model.gob"), s.Location("price_model.gob"))
	})

	t.Run("overwrite leaves no temp files", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "metrics.json", []byte(`{"r2":0.5}`), ContentTypeJSON))
		require.NoError(t, s.Put(ctx, "metrics.json", []byte(`{"r2":0.9}`), ContentTypeJSON))

		data, err := s.Get(ctx, "metrics.json")
		require.NoError(t, err)
		assert.JSONEq(t, `{"r2":0.9}`, string(data))

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotContains(t, e.Name(), ".metrics.json.")
		}
	})

	t.Run("nested keys", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "history/v1.gob", []byte("old"), ContentTypeGob))
		_, err := os.Stat(filepath.Join(root, "history", "v1.gob"))
		assert.NoError(t, err)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "nope.gob")
		assert.ErrorIs(t, err, ErrArtifactNotFound)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		ok, err := s.Exists(ctx, "nope.gob")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "gone.gob", []byte("x"), ContentTypeGob))
		require.NoError(t, s.Delete(ctx, "gone.gob"))
		require.NoError(t, s.Delete(ctx, "gone.gob"))

		ok, err := s.Exists(ctx, "gone.gob")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("keys cannot escape the root", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "../../escape.gob", []byte("x"), ContentTypeGob))
		_, err := os.Stat(filepath.Join(root, "escape.gob"))
		assert.NoError(t, err)
	})

	t.Run("empty key", func(t *testing.T) {
		assert.Error(t, s.Put(ctx, "", nil, ContentTypeGob))
		_, err := s.Get(ctx, "")
		assert.Error(t, err)
	})
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "price_model.gob", want: "price_model.gob"},
		{in: "/a/b.json", want: "a/b.json"},
		{in: "a/../b", want: "b"},
		{in: `dir\file`, want: "dir/file"},
		{in: "../..", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cleanKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

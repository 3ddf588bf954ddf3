// Package storage keeps model artifacts (bundles, metrics and comparison
// reports) on the local disk or in S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	infraconfig "github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Content types of the stored artifacts
const (
	ContentTypeGob  = "application/x-gob"
	ContentTypeJSON = "application/json"
)

// ErrArtifactNotFound is returned by Get for a missing key
var ErrArtifactNotFound = shared.ErrNotFound.WithMessage("artifact not found")

// ArtifactStore stores opaque artifacts under slash separated keys
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// Location describes where key lives, for logs and API responses
	Location(key string) string
}

// New creates the store selected by cfg.Type
func New(ctx context.Context, cfg *infraconfig.StorageConfig, logger *zap.Logger) (ArtifactStore, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalArtifactStore(cfg.LocalDir)
	case "s3":
		s, err := NewS3ArtifactStore(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}

// cleanKey normalizes a key and rejects keys escaping the store root
func cleanKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))[1:]
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}

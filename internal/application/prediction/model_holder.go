package prediction

import (
	"sync"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/ml"
)

// ModelHolder holds the model currently used for serving. Training swaps
// the model while predictions keep reading it. Every swap starts a new
// generation.
type ModelHolder struct {
	mu         sync.RWMutex
	bundle     *ml.Bundle
	generation uint64
}

// NewModelHolder creates an empty holder
func NewModelHolder() *ModelHolder {
	return &ModelHolder{}
}

// Current returns the loaded model, or nil
func (h *ModelHolder) Current() *ml.Bundle {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bundle
}

// Snapshot returns the loaded model, or nil, together with its generation
func (h *ModelHolder) Snapshot() (*ml.Bundle, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bundle, h.generation
}

// Swap replaces the loaded model and returns the previous one
func (h *ModelHolder) Swap(b *ml.Bundle) *ml.Bundle {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.bundle
	h.bundle = b
	h.generation++
	return prev
}

// Loaded reports whether a model is loaded
func (h *ModelHolder) Loaded() bool {
	return h.Current() != nil
}

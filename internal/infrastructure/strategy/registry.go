// Package strategy keeps the pricing strategies the prediction service can
// fall back to when no trained model is loaded.
package strategy

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared/strategy"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/strategy/pricing"
)

// Listing describes one registered strategy.
type Listing struct {
	Name        string
	Description string
	IsDefault   bool
}

// Registry maps names to pricing strategies and remembers the default used
// when a caller names none. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	byName      map[string]strategy.PricingStrategy
	defaultName string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]strategy.PricingStrategy)}
}

// NewRegistryWithDefaults registers the rule-based fallback strategy and
// makes it the default.
func NewRegistryWithDefaults() (*Registry, error) {
	r := NewRegistry()
	if err := r.Register(pricing.NewFallbackPricingStrategy()); err != nil {
		return nil, err
	}
	if err := r.SetDefault(pricing.FallbackStrategyName); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds s under s.Name(). Names are unique.
func (r *Registry) Register(s strategy.PricingStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[s.Name()]; ok {
		return fmt.Errorf("%w: pricing strategy %q already registered", shared.ErrAlreadyExists, s.Name())
	}
	r.byName[s.Name()] = s
	return nil
}

// Unregister removes name, clearing the default if it pointed there.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("%w: pricing strategy %q not found", shared.ErrNotFound, name)
	}
	delete(r.byName, name)
	if r.defaultName == name {
		r.defaultName = ""
	}
	return nil
}

// SetDefault makes a registered strategy the default.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("%w: pricing strategy %q not found", shared.ErrNotFound, name)
	}
	r.defaultName = name
	return nil
}

// Default returns the default strategy name, or "" when none is set.
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultName
}

// Get looks name up. An empty name selects the default.
func (r *Registry) Get(name string) (strategy.PricingStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		if r.defaultName == "" {
			return nil, fmt.Errorf("%w: no default pricing strategy", shared.ErrNotFound)
		}
		name = r.defaultName
	}
	s, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: pricing strategy %q not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// Resolve is Get falling back to the default for unknown names. It returns
// nil only when neither exists.
func (r *Registry) Resolve(name string) strategy.PricingStrategy {
	if s, err := r.Get(name); err == nil {
		return s
	}
	s, _ := r.Get("")
	return s
}

// List returns every strategy sorted by name.
func (r *Registry) List() []Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Listing, 0, len(r.byName))
	for name, s := range r.byName {
		out = append(out, Listing{
			Name:        name,
			Description: s.Description(),
			IsDefault:   name == r.defaultName,
		})
	}
	slices.SortFunc(out, func(a, b Listing) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

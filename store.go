package cfgchain

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// SourceOverride is the Resolution source reported for caller-set overrides.
const SourceOverride = "override"

// ConfigValueStore maps logical names to providers and holds caller-set
// overrides that take precedence over them.
//
// Overrides and providers live in separate maps. An override wins even when
// its value is falsy; only the absence of an override key falls through to
// the provider. ConfigValueStore is safe for concurrent use. Providers are
// called without holding the store's lock.
type ConfigValueStore struct {
	mu        sync.RWMutex
	mapping   map[string]Provider
	overrides map[string]any
}

// Resolution is the outcome of resolving one logical name.
type Resolution struct {
	Name    string `json:"name"`
	Value   any    `json:"value"`
	Present bool   `json:"present"`
	// Source is SourceOverride, the winning provider's description, or empty when absent.
	Source string `json:"source,omitempty"`
	// Stage is the index of the winning provider within a chain, -1 otherwise.
	Stage int `json:"stage"`
}

// NewConfigValueStore creates a store bound to the providers in mapping.
// mapping is copied; it may be nil.
func NewConfigValueStore(mapping map[string]Provider) *ConfigValueStore {
	s := &ConfigValueStore{
		mapping:   make(map[string]Provider, len(mapping)),
		overrides: make(map[string]any),
	}
	for name, p := range mapping {
		s.mapping[name] = p
	}
	return s
}

// GetConfigVariable returns the override for name if one is set, otherwise
// the value of the provider bound to name. ok is false when name has neither.
func (s *ConfigValueStore) GetConfigVariable(ctx context.Context, name string) (any, bool, error) {
	s.mu.RLock()
	if v, ok := s.overrides[name]; ok {
		s.mu.RUnlock()
		return v, true, nil
	}
	p, ok := s.mapping[name]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	return p.Provide(ctx)
}

// SetConfigVariable overrides name with value until ClearConfigVariable is called.
func (s *ConfigValueStore) SetConfigVariable(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[name] = value
}

// ClearConfigVariable removes the override for name. Clearing a name with no
// override does nothing.
func (s *ConfigValueStore) ClearConfigVariable(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, name)
}

// SetConfigProvider binds provider to name, replacing any previous binding.
// Overrides are unaffected.
func (s *ConfigValueStore) SetConfigProvider(name string, provider Provider) error {
	if provider == nil {
		return fmt.Errorf("set config provider %q: %w: nil provider", name, ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapping[name] = provider
	return nil
}

// Provider returns the provider bound to name.
func (s *ConfigValueStore) Provider(name string) (Provider, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.mapping[name]
	return p, ok
}

// Override returns the override set for name.
func (s *ConfigValueStore) Override(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.overrides[name]
	return v, ok
}

// Names returns every name that has a provider or an override, sorted.
func (s *ConfigValueStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.mapping)+len(s.overrides))
	for name := range s.mapping {
		names = append(names, name)
	}
	for name := range s.overrides {
		if _, ok := s.mapping[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Explain resolves name like GetConfigVariable and reports where the value came from.
func (s *ConfigValueStore) Explain(ctx context.Context, name string) (Resolution, error) {
	res := Resolution{Name: name, Stage: -1}

	s.mu.RLock()
	v, overridden := s.overrides[name]
	p, mapped := s.mapping[name]
	s.mu.RUnlock()

	if overridden {
		res.Value = v
		res.Present = true
		res.Source = SourceOverride
		return res, nil
	}
	if !mapped {
		return res, nil
	}

	if chain, ok := p.(*ChainProvider); ok {
		t, err := chain.Trace(ctx)
		if err != nil {
			return res, fmt.Errorf("explain %s: %w", name, err)
		}
		res.Value = t.Value
		res.Present = t.Present
		res.Stage = t.Index
		if t.Present {
			res.Source = fmt.Sprint(t.Source)
		}
		return res, nil
	}

	value, ok, err := p.Provide(ctx)
	if err != nil {
		return res, fmt.Errorf("explain %s: %w", name, err)
	}
	res.Value = value
	res.Present = ok
	if ok {
		res.Source = fmt.Sprint(p)
	}
	return res, nil
}

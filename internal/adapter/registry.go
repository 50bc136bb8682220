package adapter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"ormconv/internal/naming"
)

// ErrUnknownAdapter is returned when no adapter is registered under a key.
var ErrUnknownAdapter = errors.New("unknown adapter")

// Registry maps keys to adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry holding the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}

	return r
}

// Register adds a, replacing any adapter with the same key.
func (r *Registry) Register(a Adapter) {
	r.adapters[strings.ToLower(a.Key())] = a
}

// Get returns the adapter registered under key (case-insensitive).
func (r *Registry) Get(key string) (Adapter, error) {
	if a, ok := r.adapters[strings.ToLower(key)]; ok {
		return a, nil
	}

	keys := r.Keys()
	if hint := naming.Suggest(key, keys); hint != "" {
		return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownAdapter, key, hint)
	}

	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownAdapter, key, strings.Join(keys, ", "))
}

// Keys returns the registered keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.adapters))
	for k := range r.adapters {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

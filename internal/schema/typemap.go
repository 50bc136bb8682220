package schema

import (
	"fmt"
)

// TypeMapper binds canonical kinds to an adapter's native type descriptor D.
//
// Describe is keyed by kind; Classify tries entries in registration order, so
// narrower classifiers (Decimal over a float carrier, Date over a timestamp
// carrier) must be registered first.
type TypeMapper[D any] struct {
	name    string
	entries []typeEntry[D]
}

type typeEntry[D any] struct {
	kind     Kind
	describe func(Params) (D, error)
	classify func(D) bool
}

// NewTypeMapper creates an empty mapper. name is used in error messages.
func NewTypeMapper[D any](name string) *TypeMapper[D] {
	return &TypeMapper[D]{name: name}
}

// Register adds the native mapping for kind.
func (m *TypeMapper[D]) Register(kind Kind, describe func(Params) (D, error), classify func(D) bool) *TypeMapper[D] {
	m.entries = append(m.entries, typeEntry[D]{kind: kind, describe: describe, classify: classify})
	return m
}

// Describe builds the native type descriptor for kind.
func (m *TypeMapper[D]) Describe(kind Kind, p Params) (D, error) {
	for _, e := range m.entries {
		if e.kind == kind {
			return e.describe(p)
		}
	}

	var zero D

	return zero, fmt.Errorf("%w: %s has no native type for %s", ErrUnsupportedKind, m.name, kind)
}

// Classify returns the canonical kind of a native type descriptor.
func (m *TypeMapper[D]) Classify(native D) (Kind, error) {
	for _, e := range m.entries {
		if e.classify(native) {
			return e.kind, nil
		}
	}

	return 0, fmt.Errorf("%w: %s type %v", ErrUnsupportedType, m.name, native)
}

// Kinds returns the registered kinds without duplicates.
func (m *TypeMapper[D]) Kinds() []Kind {
	seen := make(map[Kind]bool)

	var kinds []Kind

	for _, e := range m.entries {
		if !seen[e.kind] {
			seen[e.kind] = true
			kinds = append(kinds, e.kind)
		}
	}

	return kinds
}

package schema

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultModelDoc is used when a source model carries no documentation.
const DefaultModelDoc = "Generated by ormconv"

// Model is the canonical description of one table.
type Model struct {
	Table  string
	Fields []*Field
	Doc    string
	// UniqueTogether lists composite unique constraints, each naming two or more fields.
	UniqueTogether [][]string
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithModelDoc sets the model documentation.
func WithModelDoc(doc string) ModelOption {
	return func(m *Model) { m.Doc = doc }
}

// WithUniqueTogether sets the composite unique constraints.
func WithUniqueTogether(tuples ...[]string) ModelOption {
	return func(m *Model) { m.UniqueTogether = tuples }
}

// NewModel builds and validates a model and stamps every field with the
// table name. A field may belong to one model only. Primary keys are made
// non-null and unique, as NewField does.
func NewModel(table string, fields []*Field, opts ...ModelOption) (*Model, error) {
	m := &Model{
		Table:  table,
		Fields: fields,
		Doc:    DefaultModelDoc,
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	for _, f := range m.Fields {
		f.TableRelated = table

		if f.PrimaryKey {
			f.Nullable = false
			f.Unique = true
		}
	}

	return m, nil
}

func (m *Model) validate() error {
	if strings.TrimSpace(m.Table) == "" {
		return fmt.Errorf("%w: empty table name", ErrInvalidModel)
	}

	seen := make(map[string]bool, len(m.Fields))

	for i, f := range m.Fields {
		if f == nil || f.Name == "" {
			return NewFieldError(m.Table, fmt.Sprintf("#%d", i), fmt.Errorf("%w: unnamed field", ErrInvalidModel))
		}

		if seen[f.Name] {
			return NewFieldError(m.Table, f.Name, fmt.Errorf("%w: duplicate field", ErrInvalidModel))
		}

		seen[f.Name] = true

		if f.TableRelated != "" && f.TableRelated != m.Table {
			return NewFieldError(m.Table, f.Name,
				fmt.Errorf("%w: field already owned by %s", ErrInvalidModel, f.TableRelated))
		}

		if !f.Kind.Valid() {
			return NewFieldError(m.Table, f.Name, fmt.Errorf("%w: %s", ErrUnsupportedKind, f.Kind))
		}

		if err := CheckDefault(f.Kind, f.Default); err != nil {
			return NewFieldError(m.Table, f.Name, err)
		}

		if f.ForeignKey != "" {
			if _, _, err := ParseForeignKey(f.ForeignKey); err != nil {
				return NewFieldError(m.Table, f.Name, err)
			}
		}
	}

	for _, tuple := range m.UniqueTogether {
		if len(tuple) < 2 {
			return fmt.Errorf("%w: %s: unique together %v needs at least two columns",
				ErrInvalidModel, m.Table, tuple)
		}

		for _, name := range tuple {
			if !seen[name] {
				return fmt.Errorf("%w: %s: unique together names unknown field %q",
					ErrInvalidModel, m.Table, name)
			}
		}
	}

	return nil
}

// Field returns the field with the given name.
func (m *Model) Field(name string) (*Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return nil, false
}

// PrimaryKey returns the first primary-key field.
func (m *Model) PrimaryKey() (*Field, bool) {
	for _, f := range m.Fields {
		if f.PrimaryKey {
			return f, true
		}
	}

	return nil, false
}

// FieldNames returns field names in declaration order.
func (m *Model) FieldNames() []string {
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		names[i] = f.Name
	}

	return names
}

// NormalizeUniqueTogether folds one-column tuples into the named field's
// Unique flag and drops empty and duplicate tuples. Order of first
// occurrence is kept.
func NormalizeUniqueTogether(fields []*Field, tuples [][]string) [][]string {
	var out [][]string

	for _, tuple := range tuples {
		switch len(tuple) {
		case 0:
			continue
		case 1:
			for _, f := range fields {
				if f.Name == tuple[0] {
					f.Unique = true
				}
			}

			continue
		}

		if slices.ContainsFunc(out, func(t []string) bool { return slices.Equal(t, tuple) }) {
			continue
		}

		out = append(out, slices.Clone(tuple))
	}

	return out
}

package schema

import (
	"fmt"
	"math/big"
	"time"
)

// Field is one column of a Model.
type Field struct {
	Kind       Kind
	Name       string
	Doc        string
	PrimaryKey bool
	// ForeignKey references "<Type>.<column>"; empty when the column is not a relation.
	ForeignKey string
	Nullable   bool
	Unique     bool
	// Default is a literal whose Go type matches Kind (see CheckDefault); nil when unset.
	Default any
	// TableRelated is stamped by NewModel with the owning table name.
	TableRelated string
	Params       Params
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// NewField builds a field. Columns are nullable and non-unique unless an
// option says otherwise; a primary key is always non-null and unique.
func NewField(kind Kind, name string, opts ...FieldOption) *Field {
	f := &Field{
		Kind:     kind,
		Name:     name,
		Nullable: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.PrimaryKey {
		f.Nullable = false
		f.Unique = true
	}

	return f
}

// WithDoc sets the column documentation.
func WithDoc(doc string) FieldOption {
	return func(f *Field) { f.Doc = doc }
}

// WithPrimaryKey marks the field as the primary key.
func WithPrimaryKey() FieldOption {
	return func(f *Field) { f.PrimaryKey = true }
}

// WithForeignKey sets the "Type.column" reference.
func WithForeignKey(ref string) FieldOption {
	return func(f *Field) { f.ForeignKey = ref }
}

// WithNullable sets whether the column accepts NULL.
func WithNullable(nullable bool) FieldOption {
	return func(f *Field) { f.Nullable = nullable }
}

// WithUnique sets the single-column unique flag.
func WithUnique(unique bool) FieldOption {
	return func(f *Field) { f.Unique = unique }
}

// WithDefault sets the default literal; see CheckDefault for accepted types.
func WithDefault(v any) FieldOption {
	return func(f *Field) { f.Default = v }
}

// WithLength sets the length parameter.
func WithLength(n int) FieldOption {
	return func(f *Field) { f.Params.Length = IntPtr(n) }
}

// WithPrecision sets the precision parameter.
func WithPrecision(n int) FieldOption {
	return func(f *Field) { f.Params.Precision = IntPtr(n) }
}

// WithScale sets the scale parameter.
func WithScale(n int) FieldOption {
	return func(f *Field) { f.Params.Scale = IntPtr(n) }
}

// WithAutoOnCreate fills the column with the current time on insert.
func WithAutoOnCreate() FieldOption {
	return func(f *Field) { f.Params.AutoOnCreate = true }
}

// WithAutoOnUpdate fills the column with the current time on update.
func WithAutoOnUpdate() FieldOption {
	return func(f *Field) { f.Params.AutoOnUpdate = true }
}

// WithParams replaces the field parameters.
func WithParams(p Params) FieldOption {
	return func(f *Field) { f.Params = p }
}

// HasDefault reports whether a default literal is set.
func (f *Field) HasDefault() bool {
	return f.Default != nil
}

// CheckDefault verifies that v is a literal of the Go type expected for kind.
func CheckDefault(kind Kind, v any) error {
	if v == nil {
		return nil
	}

	ok := false

	switch kind {
	case Integer:
		_, ok = v.(int64)
	case String:
		_, ok = v.(string)
	case Boolean:
		_, ok = v.(bool)
	case Float:
		_, ok = v.(float64)
	case Decimal:
		var s string
		if s, ok = v.(string); ok {
			_, ok = new(big.Rat).SetString(s)
		}
	case Date, DateTime:
		_, ok = v.(time.Time)
	case Bytes:
		_, ok = v.([]byte)
	}

	if !ok {
		return fmt.Errorf("%w: %T %v for %s", ErrInvalidDefault, v, v, kind)
	}

	return nil
}

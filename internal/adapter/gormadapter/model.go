package gormadapter

import (
	"path"
	"strings"

	"ormconv/internal/naming"
)

// Model is a GORM model: one Go struct type.
type Model struct {
	TypeName string
	Table    string
	Doc      string
	Fields   []*Field
	// TableNameMethod is set when the table comes from a TableName() method.
	TableNameMethod bool
}

// Name returns the Go type name.
func (m *Model) Name() string { return m.TypeName }

// Field returns the field with the given Go name.
func (m *Model) Field(goName string) *Field {
	for _, f := range m.Fields {
		if f.GoName == goName {
			return f
		}
	}

	return nil
}

// PrimaryKeys returns the primary key fields: the ones tagged primaryKey,
// or the field named ID when none is tagged.
func (m *Model) PrimaryKeys() []*Field {
	var pks []*Field

	for _, f := range m.Fields {
		if f.Relation == nil && f.Tag.Has("primaryKey") {
			pks = append(pks, f)
		}
	}

	if len(pks) == 0 {
		if id := m.Field("ID"); id != nil && id.Relation == nil {
			pks = append(pks, id)
		}
	}

	return pks
}

// Field is one struct field of a GORM model: a column, or a relation when
// Relation is set.
type Field struct {
	GoName string
	Type   GoType
	Tag    *Tag
	// ColumnPrefix comes from an embeddedPrefix tag of the enclosing struct.
	ColumnPrefix string
	// ForeignKey is the resolved "<Type>.<column>" reference of a column.
	ForeignKey string
	Relation   *Relation
}

// Name returns the Go field name.
func (f *Field) Name() string { return f.GoName }

// Column returns the column name: the column tag, or the snake_case field name.
func (f *Field) Column() string {
	if c, ok := f.Tag.Get("column"); ok && c != "" {
		return f.ColumnPrefix + c
	}

	return f.ColumnPrefix + naming.Snake(f.GoName)
}

// RelationKind distinguishes the association shapes GORM infers.
type RelationKind int

const (
	BelongsTo RelationKind = iota + 1
	HasOne
	HasMany
	ManyToMany
)

// Relation is an association field. It holds no column itself; the foreign
// key lives in a scalar field of this model (BelongsTo) or of Model
// (HasOne, HasMany).
type Relation struct {
	Kind  RelationKind
	Model string
	// ForeignKey and References are Go field names.
	ForeignKey string
	References string
}

// GoType is a field type as GORM sees it.
type GoType struct {
	Pointer bool
	// Slice marks []T of a local model type (has-many associations).
	Slice bool
	// Package is the import path; empty for builtin and local types.
	Package string
	Name    string
	Local   bool
	// SQLType is the lower-cased value of the type tag.
	SQLType string
}

// String renders the type as Go source.
func (t GoType) String() string {
	var sb strings.Builder

	if t.Slice {
		sb.WriteString("[]")
	}

	if t.Pointer {
		sb.WriteString("*")
	}

	if t.Package != "" {
		sb.WriteString(path.Base(t.Package) + ".")
	}

	sb.WriteString(t.Name)

	return sb.String()
}

// Is reports whether the type is pkg.name, ignoring pointers.
func (t GoType) Is(pkg, name string) bool {
	return !t.Slice && t.Package == pkg && t.Name == name
}

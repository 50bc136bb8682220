package entadapter

import (
	"maps"
	"slices"
)

// idField is the name ent reserves for the primary key.
const idField = "id"

// Schema is an ent schema type.
type Schema struct {
	TypeName string
	Table    string
	// TableAnnotation is set when the table comes from entsql.Annotation.
	TableAnnotation bool
	Doc             string
	Fields          []*Field
	Edges           []*Edge
	Indexes         []*Index
	// ImplicitID is set when the id field was not declared.
	ImplicitID bool
}

// Name returns the schema type name.
func (s *Schema) Name() string { return s.TypeName }

// Field returns the field with the given ent name.
func (s *Schema) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.FieldName == name {
			return f
		}
	}

	return nil
}

// IDColumn returns the column of the id field.
func (s *Schema) IDColumn() string {
	if id := s.Field(idField); id != nil {
		return id.Column()
	}

	return idField
}

// Edge returns the edge with the given name.
func (s *Schema) Edge(name string) *Edge {
	for _, e := range s.Edges {
		if e.EdgeName == name {
			return e
		}
	}

	return nil
}

// Field is one field builder chain, e.g. field.String("name").MaxLen(32).
type Field struct {
	Type       FieldType
	FieldName  string
	StorageKey string
	MaxLen     *int
	Optional   bool
	Nillable   bool
	Unique     bool
	// Default is the Go source of a literal default.
	Default string
	// DefaultNow and UpdateDefaultNow stand for Default(time.Now) and
	// UpdateDefault(time.Now).
	DefaultNow       bool
	UpdateDefaultNow bool
	Comment          string
	// ForeignKey is "<Type>.<column>", set from the edge bound to the field.
	ForeignKey string
}

// Name returns the ent field name.
func (f *Field) Name() string { return f.FieldName }

// Column returns the storage key, or the field name.
func (f *Field) Column() string {
	if f.StorageKey != "" {
		return f.StorageKey
	}

	return f.FieldName
}

// FieldType is a field builder function plus its per-dialect column types.
type FieldType struct {
	Builder    string
	SchemaType map[string]string
}

// SQLType returns the SchemaType entry of the first dialect in sorted
// order, or "".
func (t FieldType) SQLType() string {
	keys := slices.Sorted(maps.Keys(t.SchemaType))
	if len(keys) == 0 {
		return ""
	}

	return t.SchemaType[keys[0]]
}

// EdgeDirection tells edge.To from edge.From.
type EdgeDirection int

const (
	EdgeTo EdgeDirection = iota + 1
	EdgeFrom
)

func (d EdgeDirection) String() string {
	if d == EdgeFrom {
		return "From"
	}

	return "To"
}

// Edge is one edge builder chain.
type Edge struct {
	Direction EdgeDirection
	EdgeName  string
	// Type is the target schema type name.
	Type     string
	Ref      string
	Field    string
	Unique   bool
	Required bool

	// refColumn is the referenced column of an edge built from the IR.
	refColumn string
}

// Index is one index builder chain.
type Index struct {
	Fields []string
	Edges  []string
	Unique bool
}

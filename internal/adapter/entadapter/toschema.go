package entadapter

import (
	"fmt"
	"strconv"
	"strings"

	"ormconv/internal/adapter"
	"ormconv/internal/schema"
)

// ToSchema extracts an ent schema into the IR.
func (a *Adapter) ToSchema(m adapter.Model) (*schema.Model, error) {
	s, err := asSchema(m)
	if err != nil {
		return nil, err
	}

	fields := make([]*schema.Field, 0, len(s.Fields))
	columns := make(map[string]string, len(s.Fields))

	for _, f := range s.Fields {
		sf, err := a.toField(s, f)
		if err != nil {
			return nil, err
		}

		fields = append(fields, sf)
		columns[f.FieldName] = sf.Name
	}

	var tuples [][]string

	for _, idx := range s.Indexes {
		if !idx.Unique {
			a.logger.Debug("skipping non-unique index", "schema", s.TypeName, "fields", idx.Fields)
			continue
		}

		tuple, err := indexColumns(s, idx, columns)
		if err != nil {
			return nil, err
		}

		tuples = append(tuples, tuple)
	}

	opts := []schema.ModelOption{schema.WithUniqueTogether(schema.NormalizeUniqueTogether(fields, tuples)...)}
	if s.Doc != "" {
		opts = append(opts, schema.WithModelDoc(s.Doc))
	}

	model, err := schema.NewModel(s.Table, fields, opts...)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.TypeName, err)
	}

	return model, nil
}

// indexColumns maps the fields and edges of an index to column names.
// Edges stand for the field they bind.
func indexColumns(s *Schema, idx *Index, columns map[string]string) ([]string, error) {
	tuple := make([]string, 0, len(idx.Fields)+len(idx.Edges))

	for _, name := range idx.Fields {
		col, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s: index names unknown field %q", schema.ErrInvalidModel, s.Table, name)
		}

		tuple = append(tuple, col)
	}

	for _, name := range idx.Edges {
		e := s.Edge(name)
		if e == nil || e.Field == "" {
			return nil, fmt.Errorf("%w: %s: index edge %q binds no field", schema.ErrInvalidModel, s.Table, name)
		}

		tuple = append(tuple, columns[e.Field])
	}

	return tuple, nil
}

func (a *Adapter) toField(s *Schema, f *Field) (*schema.Field, error) {
	column := f.Column()
	fail := func(err error) error { return schema.NewFieldError(s.Table, column, err) }

	kind, err := a.mapper.Classify(f.Type)
	if err != nil {
		return nil, fail(err)
	}

	pk := f.FieldName == idField

	opts := []schema.FieldOption{
		schema.WithNullable(f.Optional && !pk),
		schema.WithUnique(f.Unique),
		schema.WithForeignKey(f.ForeignKey),
	}

	if pk {
		opts = append(opts, schema.WithPrimaryKey())
	}

	if f.Comment != "" {
		opts = append(opts, schema.WithDoc(f.Comment))
	}

	if f.Default != "" {
		v, err := parseDefault(kind, f.Default)
		if err != nil {
			return nil, fail(err)
		}

		opts = append(opts, schema.WithDefault(v))
	}

	if (f.DefaultNow || f.UpdateDefaultNow) && !kind.IsTemporal() {
		return nil, fail(fmt.Errorf("%w: time.Now default on a %s column", schema.ErrUnsupportedType, kind))
	}

	params := fieldParams(kind, f)
	params.AutoOnCreate = f.DefaultNow
	params.AutoOnUpdate = f.UpdateDefaultNow

	opts = append(opts, schema.WithParams(params))

	return schema.NewField(kind, column, opts...), nil
}

// fieldParams reads MaxLen and the arguments of the SchemaType column type.
func fieldParams(kind schema.Kind, f *Field) schema.Params {
	var p schema.Params

	if f.MaxLen != nil {
		p.Length = schema.IntPtr(*f.MaxLen)
	}

	base, args := parseSQLType(f.Type.SQLType())

	switch {
	case kind == schema.Decimal || (kind == schema.Float && base == "float"):
		if len(args) > 0 {
			p.Precision = schema.IntPtr(args[0])
		}

		if len(args) > 1 {
			p.Scale = schema.IntPtr(args[1])
		}
	case kind == schema.DateTime && len(args) > 0:
		p.Precision = schema.IntPtr(args[0])
	case (kind == schema.String || kind == schema.Bytes) && p.Length == nil && len(args) == 1:
		p.Length = schema.IntPtr(args[0])
	}

	return p
}

// parseDefault converts the Go source of a Default argument into the typed
// literal of kind.
func parseDefault(kind schema.Kind, src string) (any, error) {
	var (
		v   any
		err error
	)

	switch kind {
	case schema.Integer:
		v, err = strconv.ParseInt(src, 0, 64)
	case schema.Float:
		v, err = strconv.ParseFloat(src, 64)
	case schema.Decimal:
		if _, err = strconv.ParseFloat(src, 64); err == nil {
			v = src
		}
	case schema.String:
		v, err = strconv.Unquote(src)
	case schema.Boolean:
		v, err = strconv.ParseBool(src)
	case schema.Bytes:
		inner, hasPrefix := strings.CutPrefix(src, "[]byte(")
		inner, hasSuffix := strings.CutSuffix(inner, ")")

		if !hasPrefix || !hasSuffix {
			return nil, fmt.Errorf("%w: %s for %s", schema.ErrInvalidDefault, src, kind)
		}

		var s string
		if s, err = strconv.Unquote(inner); err == nil {
			v = []byte(s)
		}
	case schema.Date, schema.DateTime:
		return nil, fmt.Errorf("%w: Default(%s) on a %s column", schema.ErrUnsupportedDefault, src, kind)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s for %s", schema.ErrInvalidDefault, src, kind)
	}

	return v, nil
}

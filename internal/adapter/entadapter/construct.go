package entadapter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ormconv/internal/adapter"
	"ormconv/internal/naming"
	"ormconv/internal/schema"
)

// FromSchema builds an ent schema from the IR. The primary key becomes the
// id field; every foreign key becomes an edge.From bound to its column.
func (a *Adapter) FromSchema(sm *schema.Model) (adapter.Model, error) {
	s := &Schema{
		TypeName: naming.TypeName(sm.Table),
		Table:    sm.Table,
		Doc:      sm.Doc,
	}
	s.TableAnnotation = sm.Table != naming.Plural(s.TypeName)

	if err := checkPrimaryKey(sm); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(sm.Fields))
	taken := make(map[string]bool, len(sm.Fields))

	for _, sf := range sm.Fields {
		f, err := a.fromField(sf)
		if err != nil {
			return nil, schema.NewFieldError(sm.Table, sf.Name, err)
		}

		s.Fields = append(s.Fields, f)
		names[sf.Name] = f.FieldName
		taken[f.FieldName] = true
	}

	for _, sf := range sm.Fields {
		if sf.ForeignKey == "" {
			continue
		}

		if sf.PrimaryKey {
			return nil, schema.NewFieldError(sm.Table, sf.Name,
				fmt.Errorf("%w: a primary key cannot be an edge field", schema.ErrMalformedForeignKey))
		}

		e, err := foreignKeyEdge(s, names[sf.Name], sf, taken)
		if err != nil {
			return nil, schema.NewFieldError(sm.Table, sf.Name, err)
		}

		s.Edges = append(s.Edges, e)
	}

	qualifySharedRefs(s)

	for _, tuple := range sm.UniqueTogether {
		idx := &Index{Unique: true}
		for _, col := range tuple {
			idx.Fields = append(idx.Fields, names[col])
		}

		s.Indexes = append(s.Indexes, idx)
	}

	return s, nil
}

// checkPrimaryKey requires exactly one primary key; ent keys every schema
// by its id field.
func checkPrimaryKey(sm *schema.Model) error {
	var pks []string

	for _, f := range sm.Fields {
		if f.PrimaryKey {
			pks = append(pks, f.Name)
			continue
		}

		if f.Name == idField {
			return schema.NewFieldError(sm.Table, f.Name,
				fmt.Errorf("%w: column %q must be the primary key", schema.ErrInvalidModel, idField))
		}
	}

	if len(pks) != 1 {
		return fmt.Errorf("%w: %s: ent needs exactly one primary key, got %v", schema.ErrInvalidModel, sm.Table, pks)
	}

	return nil
}

func (a *Adapter) fromField(sf *schema.Field) (*Field, error) {
	if err := checkParams(sf.Kind, sf.Params); err != nil {
		return nil, err
	}

	ft, err := a.mapper.Describe(sf.Kind, sf.Params)
	if err != nil {
		return nil, err
	}

	f := &Field{
		Type:      ft,
		FieldName: sf.Name,
		Comment:   sf.Doc,
	}

	if sf.PrimaryKey {
		f.FieldName = idField
		if sf.Name != idField {
			f.StorageKey = sf.Name
		}
	}

	p := sf.Params

	if p.Length != nil && (sf.Kind == schema.String || sf.Kind == schema.Bytes) {
		f.MaxLen = schema.IntPtr(*p.Length)
	}

	if sf.Nullable && !sf.PrimaryKey {
		f.Optional = true
		f.Nillable = true
	}

	f.Unique = sf.Unique && !sf.PrimaryKey

	if p.IsAuto() && !sf.Kind.IsTemporal() {
		return nil, fmt.Errorf("%w: auto timestamps on a %s column", schema.ErrUnsupportedKind, sf.Kind)
	}

	f.DefaultNow = p.AutoOnCreate
	f.UpdateDefaultNow = p.AutoOnUpdate

	if sf.HasDefault() && !sf.PrimaryKey && !p.IsAuto() {
		if f.Default, err = formatDefault(sf.Kind, sf.Default); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// checkParams rejects parameters that have no ent spelling: a length is a
// MaxLen on strings and bytes, a precision lives in the SchemaType of
// floats, decimals and times, and a scale needs a precision next to it.
func checkParams(kind schema.Kind, p schema.Params) error {
	switch {
	case p.Length != nil && kind != schema.String && kind != schema.Bytes:
		return fmt.Errorf("%w: length on a %s column", schema.ErrUnsupportedParam, kind)
	case p.Precision != nil && kind != schema.Float && kind != schema.Decimal && kind != schema.DateTime:
		return fmt.Errorf("%w: precision on a %s column", schema.ErrUnsupportedParam, kind)
	case p.Scale != nil && kind != schema.Float && kind != schema.Decimal:
		return fmt.Errorf("%w: scale on a %s column", schema.ErrUnsupportedParam, kind)
	case p.Scale != nil && p.Precision == nil:
		return fmt.Errorf("%w: scale without precision on a %s column", schema.ErrUnsupportedParam, kind)
	}

	return nil
}

// foreignKeyEdge builds edge.From(name, Target.Type).Ref(back).Field(col).
// The edge is named after the column without its _id suffix.
func foreignKeyEdge(s *Schema, fieldName string, sf *schema.Field, taken map[string]bool) (*Edge, error) {
	table, column, err := schema.ParseForeignKey(sf.ForeignKey)
	if err != nil {
		return nil, err
	}

	target := naming.TypeName(table)

	name := strings.TrimSuffix(fieldName, "_id")
	if name == "" || name == fieldName {
		name = naming.Snake(target)
	}

	if taken[name] {
		name += "_ref"
	}

	taken[name] = true

	return &Edge{
		Direction: EdgeFrom,
		EdgeName:  name,
		Type:      target,
		Ref:       naming.Plural(s.TypeName),
		Field:     fieldName,
		Unique:    true,
		Required:  !sf.Nullable,
		refColumn: column,
	}, nil
}

// qualifySharedRefs prefixes the back reference with the edge name when
// several edges point at the same target, so the inverse edges differ.
func qualifySharedRefs(s *Schema) {
	count := make(map[string]int)
	for _, e := range s.Edges {
		count[e.Type]++
	}

	for _, e := range s.Edges {
		if count[e.Type] > 1 {
			e.Ref = e.EdgeName + "_" + e.Ref
		}
	}
}

// Link checks that every foreign key references the id column of its
// target and adds the inverse edge.To on targets constructed in the same
// request.
func (a *Adapter) Link(models []adapter.Model) error {
	schemas := make([]*Schema, 0, len(models))
	byName := make(map[string]*Schema, len(models))

	for _, m := range models {
		s, err := asSchema(m)
		if err != nil {
			return err
		}

		schemas = append(schemas, s)
		byName[s.TypeName] = s
	}

	for _, s := range schemas {
		for _, e := range s.Edges {
			if e.Direction != EdgeFrom || e.Field == "" {
				continue
			}

			target := byName[e.Type]

			want := idField
			if target != nil {
				want = target.IDColumn()
			}

			if e.refColumn != "" && e.refColumn != want {
				return schema.NewFieldError(s.Table, e.Field,
					fmt.Errorf("%w: %s.%s is not the id column %q of %s",
						schema.ErrMalformedForeignKey, e.Type, e.refColumn, want, e.Type))
			}

			if target == nil {
				a.logger.Debug("edge target not in request", "schema", s.TypeName, "edge", e.EdgeName, "target", e.Type)
				continue
			}

			if target.Edge(e.Ref) != nil {
				continue
			}

			if target.Field(e.Ref) != nil {
				return schema.NewFieldError(target.Table, e.Ref,
					fmt.Errorf("%w: inverse edge of %s.%s clashes with a field", schema.ErrInvalidModel, s.TypeName, e.EdgeName))
			}

			target.Edges = append(target.Edges, &Edge{Direction: EdgeTo, EdgeName: e.Ref, Type: s.TypeName})
		}
	}

	return nil
}

// formatDefault renders a typed default literal as the Go source of a
// Default argument.
func formatDefault(kind schema.Kind, v any) (string, error) {
	if err := schema.CheckDefault(kind, v); err != nil {
		return "", err
	}

	switch kind {
	case schema.Integer:
		return strconv.FormatInt(v.(int64), 10), nil
	case schema.Float:
		f := v.(float64)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return "", fmt.Errorf("%w: %v", schema.ErrUnsupportedDefault, f)
		}

		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case schema.Decimal:
		s := v.(string)
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return "", fmt.Errorf("%w: decimal %q is not a float literal", schema.ErrUnsupportedDefault, s)
		}

		return s, nil
	case schema.String:
		return strconv.Quote(v.(string)), nil
	case schema.Boolean:
		return strconv.FormatBool(v.(bool)), nil
	case schema.Bytes:
		return "[]byte(" + strconv.Quote(string(v.([]byte))) + ")", nil
	case schema.Date, schema.DateTime:
		return "", fmt.Errorf("%w: ent has no literal %s defaults", schema.ErrUnsupportedDefault, kind)
	}

	return "", fmt.Errorf("%w: %s", schema.ErrUnsupportedKind, kind)
}

package gormadapter

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"ormconv/internal/adapter"
	"ormconv/internal/schema"
)

// uniqueGroup collects the columns of one named composite unique index.
type uniqueGroup struct {
	name    string
	columns []indexColumn
}

type indexColumn struct {
	column   string
	priority int
}

// ToSchema extracts a GORM model into the IR.
func (a *Adapter) ToSchema(m adapter.Model) (*schema.Model, error) {
	gm, err := asModel(m)
	if err != nil {
		return nil, err
	}

	pks := make(map[*Field]bool)
	for _, f := range gm.PrimaryKeys() {
		pks[f] = true
	}

	var (
		fields []*schema.Field
		groups []*uniqueGroup
	)

	for _, f := range gm.Fields {
		if f.Relation != nil || f.Type.Local {
			continue
		}

		sf, err := a.toField(gm, f, pks[f])
		if err != nil {
			return nil, err
		}

		fields = append(fields, sf)

		groups, err = collectUniqueIndexes(gm, f, sf, groups)
		if err != nil {
			return nil, err
		}
	}

	tuples := make([][]string, 0, len(groups))

	for _, g := range groups {
		slices.SortStableFunc(g.columns, func(x, y indexColumn) int { return cmp.Compare(x.priority, y.priority) })

		tuple := make([]string, len(g.columns))
		for i, c := range g.columns {
			tuple[i] = c.column
		}

		tuples = append(tuples, tuple)
	}

	opts := []schema.ModelOption{schema.WithUniqueTogether(schema.NormalizeUniqueTogether(fields, tuples)...)}
	if gm.Doc != "" {
		opts = append(opts, schema.WithModelDoc(gm.Doc))
	}

	model, err := schema.NewModel(gm.Table, fields, opts...)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", gm.TypeName, err)
	}

	return model, nil
}

func (a *Adapter) toField(gm *Model, f *Field, pk bool) (*schema.Field, error) {
	column := f.Column()
	fail := func(err error) error { return schema.NewFieldError(gm.Table, column, err) }

	kind, err := a.mapper.Classify(f.Type)
	if err != nil {
		return nil, fail(err)
	}

	params, err := columnParams(kind, f)
	if err != nil {
		return nil, fail(err)
	}

	opts := []schema.FieldOption{
		schema.WithNullable(!pk && !f.Tag.Has("not null")),
		schema.WithUnique(f.Tag.Has("unique")),
		schema.WithForeignKey(f.ForeignKey),
	}

	if pk {
		opts = append(opts, schema.WithPrimaryKey())
	}

	if doc, ok := f.Tag.Get("comment"); ok {
		opts = append(opts, schema.WithDoc(doc))
	}

	if raw, ok := f.Tag.Get("default"); ok {
		v, now, err := parseDefault(kind, raw)
		if err != nil {
			return nil, fail(err)
		}

		if now {
			params.AutoOnCreate = true
		}

		if v != nil {
			opts = append(opts, schema.WithDefault(v))
		}
	}

	create, update, err := autoTimestamps(kind, f)
	if err != nil {
		return nil, fail(err)
	}

	// GORM fills autoUpdateTime columns on insert as well.
	params.AutoOnCreate = params.AutoOnCreate || create || update
	params.AutoOnUpdate = update

	opts = append(opts, schema.WithParams(params))

	return schema.NewField(kind, column, opts...), nil
}

// autoTimestamps reports the autoCreateTime and autoUpdateTime flags GORM
// derives from tags and the CreatedAt / UpdatedAt conventions.
func autoTimestamps(kind schema.Kind, f *Field) (create, update bool, err error) {
	create = autoFlag(f, "autoCreateTime", "CreatedAt", kind)
	update = autoFlag(f, "autoUpdateTime", "UpdatedAt", kind)

	if (create || update) && !kind.IsTemporal() {
		return false, false, fmt.Errorf("%w: unix-time auto timestamps on a %s column", schema.ErrUnsupportedType, kind)
	}

	return create, update, nil
}

func autoFlag(f *Field, key, convention string, kind schema.Kind) bool {
	if truthy, present := f.Tag.Truthy(key); present {
		return truthy
	}

	return f.GoName == convention && (kind.IsTemporal() || kind == schema.Integer)
}

func columnParams(kind schema.Kind, f *Field) (schema.Params, error) {
	var p schema.Params

	base, args := parseSQLType(f.Type.SQLType)

	switch {
	case (kind == schema.Decimal || kind == schema.Float) && isDecimalSQLType(base):
		if len(args) > 0 {
			p.Precision = schema.IntPtr(args[0])
		}

		if len(args) > 1 {
			p.Scale = schema.IntPtr(args[1])
		}
	case (kind == schema.String || kind == schema.Bytes) && len(args) == 1:
		p.Length = schema.IntPtr(args[0])
	}

	for key, dst := range map[string]**int{"size": &p.Length, "precision": &p.Precision, "scale": &p.Scale} {
		raw, ok := f.Tag.Get(key)
		if !ok {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return p, fmt.Errorf("%w: %s:%s is not an integer", schema.ErrInvalidModel, key, raw)
		}

		*dst = schema.IntPtr(n)
	}

	return p, nil
}

// collectUniqueIndexes records the field in the named unique indexes it
// belongs to. An unnamed unique index marks the field itself unique.
func collectUniqueIndexes(gm *Model, f *Field, sf *schema.Field, groups []*uniqueGroup) ([]*uniqueGroup, error) {
	settings := append(f.Tag.All("uniqueIndex"), f.Tag.All("index")...)

	for _, s := range settings {
		name, opts := parseIndexValue(s.Value)

		unique := normalizeKey(s.Key) == "UNIQUEINDEX" || opts["UNIQUE"] != "" || strings.EqualFold(opts["CLASS"], "unique")
		if !unique {
			continue
		}

		if name == "" {
			sf.Unique = true
			continue
		}

		priority := 10

		if raw, ok := opts["PRIORITY"]; ok {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, schema.NewFieldError(gm.Table, sf.Name,
					fmt.Errorf("%w: index priority %q is not an integer", schema.ErrInvalidModel, raw))
			}

			priority = n
		}

		i := slices.IndexFunc(groups, func(g *uniqueGroup) bool { return g.name == name })
		if i < 0 {
			groups = append(groups, &uniqueGroup{name: name})
			i = len(groups) - 1
		}

		groups[i].columns = append(groups[i].columns, indexColumn{column: sf.Name, priority: priority})
	}

	return groups, nil
}

// parseIndexValue splits "name,unique,priority:2" into the index name and
// its upper-cased options. Key-only options map to their own key.
func parseIndexValue(v string) (string, map[string]string) {
	parts := strings.Split(v, ",")
	opts := make(map[string]string)

	name := strings.TrimSpace(parts[0])
	if strings.Contains(name, ":") {
		parts = append([]string{""}, parts...)
		name = ""
	}

	for _, p := range parts[1:] {
		k, val, ok := strings.Cut(strings.TrimSpace(p), ":")

		k = strings.ToUpper(strings.TrimSpace(k))
		if !ok {
			val = k
		}

		opts[k] = strings.TrimSpace(val)
	}

	return name, opts
}

var dateTimeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999", "2006-01-02"}

// parseDefault converts a default tag into the typed literal of kind. now
// is set for CURRENT_TIMESTAMP-style defaults, which carry no literal.
func parseDefault(kind schema.Kind, raw string) (value any, now bool, err error) {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "null") {
		return nil, false, nil
	}

	if kind.IsTemporal() && isCurrentTimestamp(v) {
		return nil, true, nil
	}

	s := unquote(v)

	switch kind {
	case schema.Integer:
		value, err = strconv.ParseInt(s, 10, 64)
	case schema.String:
		value = s
	case schema.Boolean:
		value, err = strconv.ParseBool(s)
	case schema.Float:
		value, err = strconv.ParseFloat(s, 64)
	case schema.Decimal:
		value, err = s, schema.CheckDefault(kind, s)
	case schema.Date:
		value, err = time.Parse(time.DateOnly, s)
	case schema.DateTime:
		value, err = parseDateTime(s)
	case schema.Bytes:
		value = []byte(s)
	}

	if err != nil {
		return nil, false, fmt.Errorf("%w: %q for %s", schema.ErrInvalidDefault, raw, kind)
	}

	return value, false, nil
}

func parseDateTime(s string) (time.Time, error) {
	var err error

	for _, layout := range dateTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, err
}

func isCurrentTimestamp(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		v = v[1 : len(v)-1]
	}

	switch v {
	case "current_timestamp", "current_timestamp()", "now()", "localtimestamp", "datetime('now')":
		return true
	}

	return false
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}

	return s
}

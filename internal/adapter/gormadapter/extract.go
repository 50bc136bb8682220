package gormadapter

import (
	"fmt"
	"go/ast"
	"strconv"
	"strings"

	"ormconv/internal/adapter"
	"ormconv/internal/naming"
	"ormconv/internal/schema"
	"ormconv/internal/source"
)

// gormModelFields are the columns contributed by an embedded gorm.Model.
func gormModelFields(prefix string) []*Field {
	return []*Field{
		{GoName: "ID", Type: GoType{Name: "uint"}, Tag: ParseTag("primarykey"), ColumnPrefix: prefix},
		{GoName: "CreatedAt", Type: GoType{Package: timePkg, Name: "Time"}, Tag: &Tag{}, ColumnPrefix: prefix},
		{GoName: "UpdatedAt", Type: GoType{Package: timePkg, Name: "Time"}, Tag: &Tag{}, ColumnPrefix: prefix},
		{GoName: "DeletedAt", Type: GoType{Package: gormPkg, Name: "DeletedAt"}, Tag: ParseTag("index"), ColumnPrefix: prefix},
	}
}

// ListModels returns the GORM models of ns in declaration order, with
// associations resolved to foreign keys on their scalar columns.
func (a *Adapter) ListModels(ns *source.Namespace) ([]adapter.Model, error) {
	var models []*Model

	for _, sym := range ns.Symbols {
		if !a.Recognizes(sym) {
			continue
		}

		m, err := a.buildModel(ns, sym)
		if err != nil {
			return nil, err
		}

		models = append(models, m)
	}

	if err := a.resolveRelations(models); err != nil {
		return nil, err
	}

	out := make([]adapter.Model, len(models))
	for i, m := range models {
		out[i] = m
	}

	return out, nil
}

func (a *Adapter) buildModel(ns *source.Namespace, sym *source.Symbol) (*Model, error) {
	m := &Model{
		TypeName: sym.Name,
		Doc:      sym.Doc,
	}

	table, ok, err := tableNameMethod(sym)
	if err != nil {
		return nil, err
	}

	if ok {
		m.Table = table
		m.TableNameMethod = true
	} else {
		m.Table = naming.Plural(sym.Name)
	}

	st, _ := sym.Struct()

	fields, err := a.collectFields(ns, st, "", map[string]bool{sym.Name: true})
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", sym.Name, err)
	}

	m.Fields = fields

	return m, nil
}

// tableNameMethod reads `func (T) TableName() string { return "..." }`.
func tableNameMethod(sym *source.Symbol) (string, bool, error) {
	fn, ok := sym.Method("TableName")
	if !ok {
		return "", false, nil
	}

	if fn.Body != nil && len(fn.Body.List) == 1 {
		if ret, ok := fn.Body.List[0].(*ast.ReturnStmt); ok && len(ret.Results) == 1 {
			if lit, ok := ret.Results[0].(*ast.BasicLit); ok {
				if s, err := strconv.Unquote(lit.Value); err == nil {
					return s, true, nil
				}
			}
		}
	}

	return "", false, fmt.Errorf("%w: %s.TableName must return a string literal", schema.ErrInvalidModel, sym.Name)
}

// collectFields flattens a struct into fields, inlining gorm.Model and
// embedded structs the way GORM does.
func (a *Adapter) collectFields(ns *source.Namespace, st *ast.StructType, prefix string, visiting map[string]bool) ([]*Field, error) {
	var fields []*Field

	for _, af := range st.Fields.List {
		tag := ParseTag(source.FieldTag(af).Get("gorm"))
		if tag.Has("-") {
			continue
		}

		if len(af.Names) == 0 {
			embedded, err := a.embeddedFields(ns, af, tag, prefix, visiting)
			if err != nil {
				return nil, err
			}

			fields = append(fields, embedded...)

			continue
		}

		gt := resolveType(ns, af.Type)
		if sqlType, ok := tag.Get("type"); ok {
			gt.SQLType = strings.ToLower(strings.TrimSpace(sqlType))
		}

		for _, name := range af.Names {
			if !name.IsExported() {
				continue
			}

			if tag.Has("embedded") && gt.Local && !gt.Slice {
				embedded, err := a.inlineStruct(ns, gt.Name, prefix+embeddedPrefix(tag), visiting)
				if err != nil {
					return nil, err
				}

				fields = append(fields, embedded...)

				continue
			}

			fields = append(fields, &Field{GoName: name.Name, Type: gt, Tag: tag, ColumnPrefix: prefix})
		}
	}

	return fields, nil
}

func (a *Adapter) embeddedFields(ns *source.Namespace, af *ast.Field, tag *Tag, prefix string, visiting map[string]bool) ([]*Field, error) {
	if isGORMModelEmbed(af, gormModel(ns)) {
		return gormModelFields(prefix + embeddedPrefix(tag)), nil
	}

	gt := resolveType(ns, af.Type)
	if !gt.Local || gt.Slice {
		a.logger.Debug("skipping embedded field", "type", source.ExprString(af.Type))
		return nil, nil
	}

	return a.inlineStruct(ns, gt.Name, prefix+embeddedPrefix(tag), visiting)
}

func (a *Adapter) inlineStruct(ns *source.Namespace, typeName, prefix string, visiting map[string]bool) ([]*Field, error) {
	if visiting[typeName] {
		return nil, fmt.Errorf("%w: %s embeds itself", schema.ErrInvalidModel, typeName)
	}

	sym := ns.Lookup(typeName)
	if sym == nil {
		return nil, fmt.Errorf("%w: embedded type %s not found", schema.ErrUnsupportedType, typeName)
	}

	st, ok := sym.Struct()
	if !ok {
		return nil, fmt.Errorf("%w: embedded type %s is not a struct", schema.ErrUnsupportedType, typeName)
	}

	visiting[typeName] = true
	defer delete(visiting, typeName)

	return a.collectFields(ns, st, prefix, visiting)
}

func embeddedPrefix(tag *Tag) string {
	p, _ := tag.Get("embeddedPrefix")
	return p
}

// resolveRelations turns association fields into foreign keys on the
// scalar columns that hold them.
func (a *Adapter) resolveRelations(models []*Model) error {
	byName := make(map[string]*Model, len(models))
	for _, m := range models {
		byName[m.TypeName] = m
	}

	for _, m := range models {
		for _, f := range m.Fields {
			if !f.Type.Local {
				continue
			}

			target := byName[f.Type.Name]
			if target == nil {
				return schema.NewFieldError(m.Table, f.GoName,
					fmt.Errorf("%w: %s is not a model", schema.ErrMalformedForeignKey, f.Type.Name))
			}

			rel, err := resolveRelation(m, f, target)
			if err != nil {
				return schema.NewFieldError(m.Table, f.GoName, err)
			}

			f.Relation = rel

			if rel.Kind == ManyToMany {
				a.logger.Debug("skipping many2many association", "model", m.TypeName, "field", f.GoName)
			}
		}
	}

	return nil
}

func resolveRelation(owner *Model, f *Field, target *Model) (*Relation, error) {
	if f.Tag.Has("many2many") {
		return &Relation{Kind: ManyToMany, Model: target.TypeName}, nil
	}

	fkTag, _ := f.Tag.Get("foreignKey")
	refTag, _ := f.Tag.Get("references")

	if !f.Type.Slice {
		targetPK, err := primaryKeyName(target)
		if err != nil {
			return nil, err
		}

		fk := or(fkTag, f.GoName+targetPK)
		if col := owner.Field(fk); col != nil && col.Relation == nil {
			ref, err := reference(target, or(refTag, targetPK))
			if err != nil {
				return nil, err
			}

			col.ForeignKey = ref

			return &Relation{Kind: BelongsTo, Model: target.TypeName, ForeignKey: fk, References: or(refTag, targetPK)}, nil
		}
	}

	ownerPK, err := primaryKeyName(owner)
	if err != nil {
		return nil, err
	}

	fk := or(fkTag, owner.TypeName+ownerPK)

	col := target.Field(fk)
	if col == nil || col.Relation != nil {
		return nil, fmt.Errorf("%w: no foreign key field %s for association with %s",
			schema.ErrMalformedForeignKey, fk, target.TypeName)
	}

	ref, err := reference(owner, or(refTag, ownerPK))
	if err != nil {
		return nil, err
	}

	col.ForeignKey = ref

	kind := HasOne
	if f.Type.Slice {
		kind = HasMany
	}

	return &Relation{Kind: kind, Model: target.TypeName, ForeignKey: fk, References: or(refTag, ownerPK)}, nil
}

func primaryKeyName(m *Model) (string, error) {
	pks := m.PrimaryKeys()
	if len(pks) == 0 {
		return "", fmt.Errorf("%w: %s has no primary key", schema.ErrMalformedForeignKey, m.TypeName)
	}

	return pks[0].GoName, nil
}

// reference builds the "<Type>.<column>" encoding of a field of m.
func reference(m *Model, goName string) (string, error) {
	f := m.Field(goName)
	if f == nil || f.Relation != nil {
		return "", fmt.Errorf("%w: %s has no field %s", schema.ErrMalformedForeignKey, m.TypeName, goName)
	}

	return schema.FormatForeignKey(naming.TypeName(m.Table), f.Column()), nil
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}

	return fallback
}

// ExtractFields returns the column fields of m in declaration order.
func (a *Adapter) ExtractFields(m adapter.Model) ([]adapter.Field, error) {
	gm, err := asModel(m)
	if err != nil {
		return nil, err
	}

	var out []adapter.Field

	for _, f := range gm.Fields {
		if f.Relation == nil && !f.Type.Local {
			out = append(out, f)
		}
	}

	return out, nil
}

func asModel(m adapter.Model) (*Model, error) {
	gm, ok := m.(*Model)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a GORM model", schema.ErrInvalidModel, m)
	}

	return gm, nil
}

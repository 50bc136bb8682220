package gormadapter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ormconv/internal/adapter"
	"ormconv/internal/naming"
	"ormconv/internal/schema"
)

// FromSchema builds a GORM model from the IR. Only settings that differ
// from GORM's conventions are put into tags.
func (a *Adapter) FromSchema(sm *schema.Model) (adapter.Model, error) {
	m := &Model{
		TypeName:        naming.TypeName(sm.Table),
		Table:           sm.Table,
		Doc:             sm.Doc,
		TableNameMethod: true,
	}

	pks := 0

	for _, f := range sm.Fields {
		if f.PrimaryKey {
			pks++
		}
	}

	taken := make(map[string]bool, len(sm.Fields))
	for _, f := range sm.Fields {
		taken[naming.Pascal(f.Name)] = true
	}

	for _, sf := range sm.Fields {
		f, err := a.fromField(sm, sf, pks)
		if err != nil {
			return nil, schema.NewFieldError(sm.Table, sf.Name, err)
		}

		m.Fields = append(m.Fields, f)

		if sf.ForeignKey == "" {
			continue
		}

		rel, err := relationField(f, sf.ForeignKey, taken)
		if err != nil {
			return nil, schema.NewFieldError(sm.Table, sf.Name, err)
		}

		taken[rel.GoName] = true
		m.Fields = append(m.Fields, rel)
	}

	return m, nil
}

func (a *Adapter) fromField(sm *schema.Model, sf *schema.Field, pks int) (*Field, error) {
	gt, err := a.mapper.Describe(sf.Kind, sf.Params)
	if err != nil {
		return nil, err
	}

	f := &Field{
		GoName:     naming.Pascal(sf.Name),
		Type:       gt,
		Tag:        &Tag{},
		ForeignKey: sf.ForeignKey,
	}

	if sf.Nullable && !sf.PrimaryKey && a.pointerNullable && gt.Name != "[]byte" {
		f.Type.Pointer = true
	}

	tag := f.Tag
	p := sf.Params

	if naming.Snake(f.GoName) != sf.Name {
		tag.AddValue("column", sf.Name)
	}

	if gt.SQLType != "" {
		tag.AddValue("type", gt.SQLType)
	}

	if p.Length != nil {
		tag.AddValue("size", strconv.Itoa(*p.Length))
	}

	if sf.Kind != schema.Decimal || p.Scale == nil || p.Precision == nil {
		if p.Precision != nil && sf.Kind != schema.Decimal {
			tag.AddValue("precision", strconv.Itoa(*p.Precision))
		}

		if p.Scale != nil {
			tag.AddValue("scale", strconv.Itoa(*p.Scale))
		}
	}

	if sf.PrimaryKey && (f.GoName != "ID" || pks > 1) {
		tag.Add("primaryKey")
	}

	if sf.HasDefault() && !sf.PrimaryKey && !p.IsAuto() {
		lit, err := formatDefault(sf.Kind, sf.Default)
		if err != nil {
			return nil, err
		}

		tag.AddValue("default", lit)
	}

	if !sf.Nullable && !sf.PrimaryKey {
		tag.Add("not null")
	}

	if sf.Unique && !sf.PrimaryKey {
		tag.Add("unique")
	}

	for _, tuple := range sm.UniqueTogether {
		for _, col := range tuple {
			if col == sf.Name {
				tag.AddValue("uniqueIndex", "idx_"+sm.Table+"_"+strings.Join(tuple, "_"))
			}
		}
	}

	if p.IsAuto() && !sf.Kind.IsTemporal() {
		return nil, fmt.Errorf("%w: auto timestamps on a %s column", schema.ErrUnsupportedKind, sf.Kind)
	}

	addAutoSettings(tag, f.GoName, p)

	if sf.Doc != "" {
		tag.AddValue("comment", sf.Doc)
	}

	return f, nil
}

// addAutoSettings writes autoCreateTime / autoUpdateTime settings where the
// wanted flags differ from the CreatedAt / UpdatedAt conventions. An
// autoUpdateTime column is filled on insert too, so auto_on_update alone
// covers both flags.
func addAutoSettings(tag *Tag, goName string, p schema.Params) {
	wantUpdate := p.AutoOnUpdate
	wantCreate := p.AutoOnCreate && !wantUpdate
	conventionCreate := goName == "CreatedAt"
	conventionUpdate := goName == "UpdatedAt"

	if !wantUpdate && conventionCreate != wantCreate {
		if wantCreate {
			tag.Add("autoCreateTime")
		} else {
			tag.AddValue("autoCreateTime", "false")
		}
	}

	if conventionUpdate != wantUpdate {
		if wantUpdate {
			tag.Add("autoUpdateTime")
		} else {
			tag.AddValue("autoUpdateTime", "false")
		}
	}
}

// relationField builds the belongs-to association for a foreign key column.
func relationField(fk *Field, ref string, taken map[string]bool) (*Field, error) {
	table, column, err := schema.ParseForeignKey(ref)
	if err != nil {
		return nil, err
	}

	target := naming.TypeName(table)
	references := naming.Pascal(column)

	name := strings.TrimSuffix(fk.GoName, "ID")
	if name == "" || name == fk.GoName {
		name = target
	}

	if taken[name] {
		name += "Ref"
	}

	fk.ForeignKey = schema.FormatForeignKey(target, column)

	return &Field{
		GoName: name,
		Type:   GoType{Pointer: true, Local: true, Name: target},
		Tag:    (&Tag{}).AddValue("foreignKey", fk.GoName).AddValue("references", references),
		Relation: &Relation{
			Kind:       BelongsTo,
			Model:      target,
			ForeignKey: fk.GoName,
			References: references,
		},
	}, nil
}

// formatDefault renders a typed default literal as a default tag value.
func formatDefault(kind schema.Kind, v any) (string, error) {
	if err := schema.CheckDefault(kind, v); err != nil {
		return "", err
	}

	switch kind {
	case schema.Integer:
		return strconv.FormatInt(v.(int64), 10), nil
	case schema.String:
		return quote(v.(string)), nil
	case schema.Boolean:
		return strconv.FormatBool(v.(bool)), nil
	case schema.Float:
		return strconv.FormatFloat(v.(float64), 'g', -1, 64), nil
	case schema.Decimal:
		return v.(string), nil
	case schema.Date:
		return quote(v.(time.Time).Format(time.DateOnly)), nil
	case schema.DateTime:
		return quote(v.(time.Time).Format(time.RFC3339Nano)), nil
	case schema.Bytes:
		return quote(string(v.([]byte))), nil
	}

	return "", fmt.Errorf("%w: %s", schema.ErrUnsupportedKind, kind)
}

func quote(s string) string {
	return "'" + s + "'"
}

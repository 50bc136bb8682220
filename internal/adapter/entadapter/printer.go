package entadapter

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"ormconv/internal/adapter"
	"ormconv/internal/printer"
)

// ModelPrinter renders an ent schema as its struct and builder methods.
type ModelPrinter struct {
	schema *Schema
}

// ModulePrinter renders several ent schemas into one Go file.
type ModulePrinter struct {
	pkg    string
	models []printer.ModelPrinter
}

// NewModelPrinter returns a printer for m.
func (a *Adapter) NewModelPrinter(m adapter.Model) (printer.ModelPrinter, error) {
	s, err := asSchema(m)
	if err != nil {
		return nil, err
	}

	return &ModelPrinter{schema: s}, nil
}

// NewModulePrinter returns a printer for a file in package pkg.
func (a *Adapter) NewModulePrinter(pkg string, models ...printer.ModelPrinter) printer.ModulePrinter {
	return &ModulePrinter{pkg: pkg, models: models}
}

func (p *ModelPrinter) ClassName() string { return p.schema.TypeName }

// Metadata renders the Annotations and Indexes methods.
func (p *ModelPrinter) Metadata() string {
	return printer.JoinNonEmpty("\n\n", p.annotations(), p.indexes())
}

func (p *ModelPrinter) annotations() string {
	if !p.schema.TableAnnotation {
		return ""
	}

	return p.method("Annotations", "schema.Annotation",
		fmt.Sprintf("entsql.Annotation{Table: %s},", strconv.Quote(p.schema.Table)))
}

func (p *ModelPrinter) indexes() string {
	if len(p.schema.Indexes) == 0 {
		return ""
	}

	lines := make([]string, len(p.schema.Indexes))

	for i, idx := range p.schema.Indexes {
		var sb strings.Builder

		if len(idx.Fields) > 0 {
			sb.WriteString("index.Fields(" + quoteAll(idx.Fields) + ")")
		}

		if len(idx.Edges) > 0 {
			if sb.Len() == 0 {
				sb.WriteString("index")
			}

			sb.WriteString(".Edges(" + quoteAll(idx.Edges) + ")")
		}

		if idx.Unique {
			sb.WriteString(".Unique()")
		}

		lines[i] = sb.String() + ","
	}

	return p.method("Indexes", "ent.Index", strings.Join(lines, "\n"))
}

func (p *ModelPrinter) edges() string {
	if len(p.schema.Edges) == 0 {
		return ""
	}

	lines := make([]string, len(p.schema.Edges))

	for i, e := range p.schema.Edges {
		calls := []string{fmt.Sprintf("edge.%s(%s, %s.Type)", e.Direction, strconv.Quote(e.EdgeName), e.Type)}

		if e.Ref != "" && e.Direction == EdgeFrom {
			calls = append(calls, "Ref("+strconv.Quote(e.Ref)+")")
		}

		if e.Field != "" {
			calls = append(calls, "Field("+strconv.Quote(e.Field)+")")
		}

		if e.Unique {
			calls = append(calls, "Unique()")
		}

		if e.Required {
			calls = append(calls, "Required()")
		}

		lines[i] = chain(calls) + ","
	}

	return p.method("Edges", "ent.Edge", strings.Join(lines, "\n"))
}

// method renders `func (T) Name() []elem { return []elem{ body } }`.
func (p *ModelPrinter) method(name, elem, body string) string {
	return fmt.Sprintf("// %s of the %s.\nfunc (%s) %s() []%s {\n\treturn []%s{\n%s\n\t}\n}",
		name, p.schema.TypeName, p.schema.TypeName, name, elem, elem, printer.Indent(body, 2))
}

// Field renders one field builder chain.
func (p *ModelPrinter) Field(f printer.Field) (string, error) {
	ef, ok := f.(*Field)
	if !ok {
		return "", fmt.Errorf("ent printer: unexpected field type %T", f)
	}

	calls := []string{fmt.Sprintf("field.%s(%s)", ef.Type.Builder, strconv.Quote(ef.FieldName))}

	if ef.StorageKey != "" {
		calls = append(calls, "StorageKey("+strconv.Quote(ef.StorageKey)+")")
	}

	if len(ef.Type.SchemaType) > 0 {
		calls = append(calls, "SchemaType("+schemaTypeLiteral(ef.Type.SchemaType)+")")
	}

	if ef.MaxLen != nil {
		calls = append(calls, "MaxLen("+strconv.Itoa(*ef.MaxLen)+")")
	}

	for _, flag := range []struct {
		set  bool
		call string
	}{
		{ef.Optional, "Optional()"},
		{ef.Nillable, "Nillable()"},
		{ef.Unique, "Unique()"},
	} {
		if flag.set {
			calls = append(calls, flag.call)
		}
	}

	switch {
	case ef.DefaultNow:
		calls = append(calls, "Default(time.Now)")
	case ef.Default != "":
		calls = append(calls, "Default("+ef.Default+")")
	}

	if ef.UpdateDefaultNow {
		calls = append(calls, "UpdateDefault(time.Now)")
	}

	if ef.Comment != "" {
		calls = append(calls, "Comment("+strconv.Quote(ef.Comment)+")")
	}

	return chain(calls), nil
}

// chain joins builder calls, one call per line after the first.
func chain(calls []string) string {
	if len(calls) == 1 {
		return calls[0]
	}

	return calls[0] + ".\n" + printer.Indent(strings.Join(calls[1:], ".\n"), 1)
}

func schemaTypeLiteral(m map[string]string) string {
	var sb strings.Builder

	sb.WriteString("map[string]string{\n")

	for _, d := range slices.Sorted(maps.Keys(m)) {
		key := strconv.Quote(d)
		if c, ok := dialectConsts[d]; ok {
			key = "dialect." + c
		}

		sb.WriteString("\t" + key + ": " + strconv.Quote(m[d]) + ",\n")
	}

	sb.WriteString("}")

	return sb.String()
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}

	return strings.Join(quoted, ", ")
}

func (p *ModelPrinter) Fields() (string, error) {
	lines := make([]string, 0, len(p.schema.Fields))

	for _, f := range p.schema.Fields {
		line, err := p.Field(f)
		if err != nil {
			return "", err
		}

		lines = append(lines, line+",")
	}

	return strings.Join(lines, "\n"), nil
}

// ImportTypes lists the packages the rendered schema uses.
func (p *ModelPrinter) ImportTypes() []string {
	s := p.schema
	paths := []string{entPkg, fieldPkg}

	if s.TableAnnotation {
		paths = append(paths, schemaPkg, entsqlPkg)
	}

	if len(s.Edges) > 0 {
		paths = append(paths, edgePkg)
	}

	if len(s.Indexes) > 0 {
		paths = append(paths, indexPkg)
	}

	for _, f := range s.Fields {
		if f.DefaultNow || f.UpdateDefaultNow {
			paths = append(paths, timePkg)
		}

		for d := range f.Type.SchemaType {
			if _, ok := dialectConsts[d]; ok {
				paths = append(paths, dialectPkg)
			}
		}
	}

	slices.Sort(paths)

	return slices.Compact(paths)
}

func (p *ModelPrinter) Model() (string, error) {
	fields, err := p.Fields()
	if err != nil {
		return "", fmt.Errorf("printing %s: %w", p.schema.TypeName, err)
	}

	name := p.schema.TypeName
	body := fmt.Sprintf("type %s struct {\n\tent.Schema\n}", name)

	return printer.JoinNonEmpty("\n\n",
		printer.JoinNonEmpty("\n", printer.Comment(p.schema.Doc), body),
		p.annotations(),
		p.method("Fields", "ent.Field", fields),
		p.edges(),
		p.indexes(),
	), nil
}

// ImportTypes renders the import block shared by every schema.
func (m *ModulePrinter) ImportTypes() string {
	var paths []string
	for _, mp := range m.models {
		paths = append(paths, mp.ImportTypes()...)
	}

	return printer.ImportBlock(paths)
}

// ImportBaseData is empty: ent schemas need no shared declarations.
func (m *ModulePrinter) ImportBaseData() string { return "" }

// Module renders the complete file.
func (m *ModulePrinter) Module() ([]byte, error) {
	blocks := make([]string, 0, len(m.models))

	for _, mp := range m.models {
		block, err := mp.Model()
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, block)
	}

	return printer.Assemble(printer.ModuleData{
		Package:  m.pkg,
		Imports:  m.ImportTypes(),
		BaseData: m.ImportBaseData(),
		Models:   blocks,
	})
}

package gormadapter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"ormconv/internal/adapter"
	"ormconv/internal/printer"
)

// ModelPrinter renders a GORM model as a Go struct and its TableName method.
type ModelPrinter struct {
	model *Model
}

// ModulePrinter renders several GORM models into one Go file.
type ModulePrinter struct {
	pkg    string
	models []printer.ModelPrinter
}

// NewModelPrinter returns a printer for m.
func (a *Adapter) NewModelPrinter(m adapter.Model) (printer.ModelPrinter, error) {
	gm, err := asModel(m)
	if err != nil {
		return nil, err
	}

	return &ModelPrinter{model: gm}, nil
}

// NewModulePrinter returns a printer for a file in package pkg.
func (a *Adapter) NewModulePrinter(pkg string, models ...printer.ModelPrinter) printer.ModulePrinter {
	return &ModulePrinter{pkg: pkg, models: models}
}

func (p *ModelPrinter) ClassName() string { return p.model.TypeName }

// Metadata renders the TableName method.
func (p *ModelPrinter) Metadata() string {
	if !p.model.TableNameMethod {
		return ""
	}

	return fmt.Sprintf("// TableName overrides the table name used by %s to `%s`.\nfunc (%s) TableName() string {\n\treturn %s\n}",
		p.model.TypeName, p.model.Table, p.model.TypeName, strconv.Quote(p.model.Table))
}

// Field renders one struct field.
func (p *ModelPrinter) Field(f printer.Field) (string, error) {
	gf, ok := f.(*Field)
	if !ok {
		return "", fmt.Errorf("gorm printer: unexpected field type %T", f)
	}

	line := gf.GoName + " " + gf.Type.String()
	if !gf.Tag.Empty() {
		line += " " + tagLiteral(`gorm:`+strconv.Quote(gf.Tag.String()))
	}

	return line, nil
}

// tagLiteral renders a struct tag as a raw string unless it contains a
// backquote.
func tagLiteral(tag string) string {
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}

	return "`" + tag + "`"
}

func (p *ModelPrinter) Fields() (string, error) {
	lines := make([]string, 0, len(p.model.Fields))

	for _, f := range p.model.Fields {
		line, err := p.Field(f)
		if err != nil {
			return "", err
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

// ImportTypes lists the packages of the field types.
func (p *ModelPrinter) ImportTypes() []string {
	var paths []string

	for _, f := range p.model.Fields {
		if f.Type.Package != "" && !slices.Contains(paths, f.Type.Package) {
			paths = append(paths, f.Type.Package)
		}
	}

	slices.Sort(paths)

	return paths
}

func (p *ModelPrinter) Model() (string, error) {
	fields, err := p.Fields()
	if err != nil {
		return "", fmt.Errorf("printing %s: %w", p.model.TypeName, err)
	}

	body := fmt.Sprintf("type %s struct {\n%s\n}", p.model.TypeName, printer.Indent(fields, 1))

	return printer.JoinNonEmpty("\n\n", printer.JoinNonEmpty("\n", printer.Comment(p.model.Doc), body), p.Metadata()), nil
}

// ImportTypes renders the import block shared by every model.
func (m *ModulePrinter) ImportTypes() string {
	var paths []string
	for _, mp := range m.models {
		paths = append(paths, mp.ImportTypes()...)
	}

	return printer.ImportBlock(paths)
}

// ImportBaseData renders a Models function listing every model.
func (m *ModulePrinter) ImportBaseData() string {
	if len(m.models) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("// Models returns every model of this file, ready for gorm.DB.AutoMigrate.\n")
	sb.WriteString("func Models() []any {\n\treturn []any{\n")

	for _, mp := range m.models {
		sb.WriteString("\t\t&" + mp.ClassName() + "{},\n")
	}

	sb.WriteString("\t}\n}")

	return sb.String()
}

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

package entadapter

import (
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"
	"strconv"

	"ormconv/internal/adapter"
	"ormconv/internal/naming"
	"ormconv/internal/schema"
	"ormconv/internal/source"
)

// Builder calls that validate or annotate values without shaping the
// column are skipped.
var (
	ignoredFieldCalls = map[string]bool{
		"NotEmpty": true, "Positive": true, "Negative": true, "NonNegative": true,
		"Min": true, "Max": true, "Range": true, "Match": true, "MinLen": true,
		"Validate": true, "Sensitive": true, "Immutable": true, "StructTag": true,
		"Annotations": true, "Deprecated": true, "GoType": true, "ValueScanner": true,
	}
	ignoredEdgeCalls = map[string]bool{
		"Comment": true, "StorageKey": true, "Annotations": true, "Immutable": true,
		"StructTag": true,
	}
	ignoredIndexCalls = map[string]bool{
		"StorageKey": true, "Annotations": true,
	}
)

// pkgNames are the local names of the ent packages imported by one file set.
type pkgNames struct {
	field, edge, index, mixin, entsql, dialect, schema, time string
}

func localNames(ns *source.Namespace) pkgNames {
	name := func(path, fallback string) string {
		if n, ok := ns.ImportName(path); ok {
			return n
		}

		return fallback
	}

	return pkgNames{
		field:   name(fieldPkg, "field"),
		edge:    name(edgePkg, "edge"),
		index:   name(indexPkg, "index"),
		mixin:   name(mixinPkg, "mixin"),
		entsql:  name(entsqlPkg, "entsql"),
		dialect: name(dialectPkg, "dialect"),
		schema:  name(schemaPkg, "schema"),
		time:    name(timePkg, "time"),
	}
}

// parser reads the builder methods of the schemas of one namespace.
type parser struct {
	ns     *source.Namespace
	pkg    pkgNames
	logger *slog.Logger
}

// ListModels returns the ent schemas of ns in declaration order, with edge
// fields resolved to foreign keys.
func (a *Adapter) ListModels(ns *source.Namespace) ([]adapter.Model, error) {
	p := &parser{ns: ns, pkg: localNames(ns), logger: a.logger}

	var schemas []*Schema

	for _, sym := range ns.Symbols {
		if !a.Recognizes(sym) {
			continue
		}

		s, err := p.schema(sym)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", sym.Name, err)
		}

		schemas = append(schemas, s)
	}

	if err := a.resolveEdges(schemas); err != nil {
		return nil, err
	}

	out := make([]adapter.Model, len(schemas))
	for i, s := range schemas {
		out[i] = s
	}

	return out, nil
}

func (p *parser) schema(sym *source.Symbol) (*Schema, error) {
	s := &Schema{
		TypeName: sym.Name,
		Table:    naming.Plural(sym.Name),
		Doc:      sym.Doc,
	}

	if err := p.annotations(sym, s); err != nil {
		return nil, err
	}

	fields, err := p.mixinFields(sym)
	if err != nil {
		return nil, err
	}

	own, err := p.fields(sym)
	if err != nil {
		return nil, err
	}

	fields = append(fields, own...)

	if !hasField(fields, idField) {
		fields = append([]*Field{{Type: FieldType{Builder: "Int"}, FieldName: idField}}, fields...)
		s.ImplicitID = true
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.FieldName] {
			return nil, fmt.Errorf("%w: duplicate field %q", schema.ErrInvalidModel, f.FieldName)
		}

		seen[f.FieldName] = true
	}

	s.Fields = fields

	if s.Edges, err = p.edges(sym); err != nil {
		return nil, err
	}

	if s.Indexes, err = p.indexes(sym); err != nil {
		return nil, err
	}

	return s, nil
}

func hasField(fields []*Field, name string) bool {
	for _, f := range fields {
		if f.FieldName == name {
			return true
		}
	}

	return false
}

func methodElements(sym *source.Symbol, name string) ([]ast.Expr, error) {
	fn, ok := sym.Method(name)
	if !ok {
		return nil, nil
	}

	return returnedElements(fn)
}

// annotations reads the table name from entsql.Annotation and a table
// comment from schema.Comment. Other annotations are skipped.
func (p *parser) annotations(sym *source.Symbol, s *Schema) error {
	elts, err := methodElements(sym, "Annotations")
	if err != nil {
		return err
	}

	for _, e := range elts {
		if u, ok := e.(*ast.UnaryExpr); ok && u.Op == token.AND {
			e = u.X
		}

		switch v := e.(type) {
		case *ast.CompositeLit:
			if source.ExprString(v.Type) != p.pkg.entsql+".Annotation" {
				break
			}

			table, ok, err := compositeString(v, "Table")
			if err != nil {
				return err
			}

			if ok && table != "" {
				s.Table = table
				s.TableAnnotation = true
			}

			continue
		case *ast.CallExpr:
			if isFunc(v.Fun, p.pkg.schema, "Comment") {
				if s.Doc == "" {
					c, err := stringArg(call{Name: "Comment", Args: v.Args}, 0)
					if err != nil {
						return err
					}

					s.Doc = c
				}

				continue
			}
		}

		p.logger.Debug("skipping annotation", "schema", sym.Name, "annotation", source.ExprString(e))
	}

	return nil
}

// compositeString reads the string literal stored under key in lit.
func compositeString(lit *ast.CompositeLit, key string) (string, bool, error) {
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}

		if id, ok := kv.Key.(*ast.Ident); !ok || id.Name != key {
			continue
		}

		if bl, ok := kv.Value.(*ast.BasicLit); ok && bl.Kind == token.STRING {
			s, err := strconv.Unquote(bl.Value)
			return s, err == nil, err
		}

		return "", false, fmt.Errorf("%w: %s must be a string literal", schema.ErrInvalidModel, key)
	}

	return "", false, nil
}

// mixinFields returns the fields contributed by Mixin(), in mixin order.
// The time mixins of entgo.io/ent/schema/mixin are built in; local mixins
// must embed mixin.Schema.
func (p *parser) mixinFields(sym *source.Symbol) ([]*Field, error) {
	elts, err := methodElements(sym, "Mixin")
	if err != nil {
		return nil, err
	}

	var fields []*Field

	for _, e := range elts {
		if u, ok := e.(*ast.UnaryExpr); ok && u.Op == token.AND {
			e = u.X
		}

		lit, ok := e.(*ast.CompositeLit)
		if !ok {
			return nil, fmt.Errorf("%w: mixin %s", schema.ErrUnsupportedType, source.ExprString(e))
		}

		name := source.ExprString(lit.Type)

		switch name {
		case p.pkg.mixin + ".CreateTime":
			fields = append(fields, createTimeField())
		case p.pkg.mixin + ".UpdateTime":
			fields = append(fields, updateTimeField())
		case p.pkg.mixin + ".Time":
			fields = append(fields, createTimeField(), updateTimeField())
		default:
			local := p.ns.Lookup(name)
			if local == nil || !embeds(local, p.pkg.mixin+".Schema") {
				return nil, fmt.Errorf("%w: mixin %s", schema.ErrUnsupportedType, name)
			}

			mf, err := p.fields(local)
			if err != nil {
				return nil, fmt.Errorf("mixin %s: %w", name, err)
			}

			fields = append(fields, mf...)
		}
	}

	return fields, nil
}

func createTimeField() *Field {
	return &Field{Type: FieldType{Builder: "Time"}, FieldName: "create_time", DefaultNow: true}
}

func updateTimeField() *Field {
	return &Field{Type: FieldType{Builder: "Time"}, FieldName: "update_time", DefaultNow: true, UpdateDefaultNow: true}
}

func (p *parser) fields(sym *source.Symbol) ([]*Field, error) {
	elts, err := methodElements(sym, "Fields")
	if err != nil {
		return nil, err
	}

	fields := make([]*Field, 0, len(elts))

	for _, e := range elts {
		f, err := p.field(sym.Name, e)
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)
	}

	return fields, nil
}

func (p *parser) field(owner string, e ast.Expr) (*Field, error) {
	pkg, calls, err := unwindChain(e)
	if err != nil {
		return nil, err
	}

	if pkg != p.pkg.field {
		return nil, fmt.Errorf("%w: %s is not a field builder", schema.ErrUnsupportedType, source.ExprString(e))
	}

	name, err := stringArg(calls[0], 0)
	if err != nil {
		return nil, err
	}

	f := &Field{Type: FieldType{Builder: calls[0].Name}, FieldName: name}

	for _, c := range calls[1:] {
		if err := p.fieldOption(f, c); err != nil {
			return nil, schema.NewFieldError(owner, name, err)
		}
	}

	return f, nil
}

func (p *parser) fieldOption(f *Field, c call) error {
	var err error

	switch c.Name {
	case "StorageKey":
		f.StorageKey, err = stringArg(c, 0)
	case "SchemaType":
		f.Type.SchemaType, err = p.schemaType(c)
	case "MaxLen":
		var n int
		if n, err = intArg(c); err == nil {
			f.MaxLen = &n
		}
	case "Optional":
		f.Optional = true
	case "Nillable":
		f.Nillable = true
	case "Unique":
		f.Unique = true
	case "Comment":
		f.Comment, err = stringArg(c, 0)
	case "Default", "DefaultFunc":
		if len(c.Args) != 1 {
			return fmt.Errorf("%w: %s needs one argument", schema.ErrUnsupportedDefault, c.Name)
		}

		switch {
		case isFunc(c.Args[0], p.pkg.time, "Now"):
			f.DefaultNow = true
		case c.Name == "DefaultFunc":
			return fmt.Errorf("%w: DefaultFunc(%s)", schema.ErrUnsupportedDefault, source.ExprString(c.Args[0]))
		default:
			f.Default = source.ExprString(c.Args[0])
		}
	case "UpdateDefault":
		if len(c.Args) != 1 || !isFunc(c.Args[0], p.pkg.time, "Now") {
			return fmt.Errorf("%w: only UpdateDefault(time.Now) is supported", schema.ErrUnsupportedDefault)
		}

		f.UpdateDefaultNow = true
	default:
		if !ignoredFieldCalls[c.Name] {
			return fmt.Errorf("%w: field option %s", schema.ErrUnsupportedType, c.Name)
		}

		p.logger.Debug("skipping field option", "field", f.FieldName, "option", c.Name)
	}

	return err
}

// schemaType reads a map[string]string literal keyed by dialect constants
// or dialect names.
func (p *parser) schemaType(c call) (map[string]string, error) {
	if len(c.Args) != 1 {
		return nil, fmt.Errorf("%w: SchemaType needs one argument", schema.ErrUnsupportedType)
	}

	lit, ok := c.Args[0].(*ast.CompositeLit)
	if !ok {
		return nil, fmt.Errorf("%w: SchemaType argument must be a map literal", schema.ErrUnsupportedType)
	}

	m := make(map[string]string, len(lit.Elts))

	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			return nil, fmt.Errorf("%w: SchemaType entry %s", schema.ErrUnsupportedType, source.ExprString(elt))
		}

		key, err := p.dialectKey(kv.Key)
		if err != nil {
			return nil, err
		}

		value, err := stringArg(call{Name: "SchemaType", Args: []ast.Expr{kv.Value}}, 0)
		if err != nil {
			return nil, err
		}

		m[key] = value
	}

	return m, nil
}

func (p *parser) dialectKey(e ast.Expr) (string, error) {
	switch k := e.(type) {
	case *ast.BasicLit:
		if k.Kind == token.STRING {
			return strconv.Unquote(k.Value)
		}
	case *ast.SelectorExpr:
		if id, ok := k.X.(*ast.Ident); ok && id.Name == p.pkg.dialect {
			for name, constant := range dialectConsts {
				if constant == k.Sel.Name {
					return name, nil
				}
			}
		}
	}

	return "", fmt.Errorf("%w: unknown dialect %s", schema.ErrUnsupportedType, source.ExprString(e))
}

func (p *parser) edges(sym *source.Symbol) ([]*Edge, error) {
	elts, err := methodElements(sym, "Edges")
	if err != nil {
		return nil, err
	}

	edges := make([]*Edge, 0, len(elts))

	for _, e := range elts {
		edge, err := p.edge(e)
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", source.ExprString(e), err)
		}

		edges = append(edges, edge)
	}

	return edges, nil
}

func (p *parser) edge(e ast.Expr) (*Edge, error) {
	pkg, calls, err := unwindChain(e)
	if err != nil {
		return nil, err
	}

	if pkg != p.pkg.edge {
		return nil, fmt.Errorf("%w: not an edge builder", schema.ErrUnsupportedType)
	}

	edge := &Edge{}

	switch calls[0].Name {
	case "To":
		edge.Direction = EdgeTo
	case "From":
		edge.Direction = EdgeFrom
	default:
		return nil, fmt.Errorf("%w: edge.%s", schema.ErrUnsupportedType, calls[0].Name)
	}

	if edge.EdgeName, err = stringArg(calls[0], 0); err != nil {
		return nil, err
	}

	if edge.Type, err = typeArg(calls[0], 1); err != nil {
		return nil, err
	}

	for _, c := range calls[1:] {
		switch c.Name {
		case "Ref":
			edge.Ref, err = stringArg(c, 0)
		case "Field":
			edge.Field, err = stringArg(c, 0)
		case "Unique":
			edge.Unique = true
		case "Required":
			edge.Required = true
		default:
			if !ignoredEdgeCalls[c.Name] {
				return nil, fmt.Errorf("%w: edge option %s", schema.ErrUnsupportedType, c.Name)
			}

			p.logger.Debug("skipping edge option", "edge", edge.EdgeName, "option", c.Name)
		}

		if err != nil {
			return nil, err
		}
	}

	return edge, nil
}

func (p *parser) indexes(sym *source.Symbol) ([]*Index, error) {
	elts, err := methodElements(sym, "Indexes")
	if err != nil {
		return nil, err
	}

	indexes := make([]*Index, 0, len(elts))

	for _, e := range elts {
		pkg, calls, err := unwindChain(e)
		if err != nil {
			return nil, err
		}

		if pkg != p.pkg.index {
			return nil, fmt.Errorf("%w: %s is not an index builder", schema.ErrUnsupportedType, source.ExprString(e))
		}

		idx := &Index{}

		for _, c := range calls {
			switch c.Name {
			case "Fields":
				names, err := stringArgs(c)
				if err != nil {
					return nil, err
				}

				idx.Fields = append(idx.Fields, names...)
			case "Edges":
				names, err := stringArgs(c)
				if err != nil {
					return nil, err
				}

				idx.Edges = append(idx.Edges, names...)
			case "Unique":
				idx.Unique = true
			default:
				if !ignoredIndexCalls[c.Name] {
					return nil, fmt.Errorf("%w: index option %s", schema.ErrUnsupportedType, c.Name)
				}
			}
		}

		indexes = append(indexes, idx)
	}

	return indexes, nil
}

// resolveEdges sets the foreign key of every field bound to an edge. An
// edge that owns a column but binds no field cannot be expressed.
func (a *Adapter) resolveEdges(schemas []*Schema) error {
	byName := make(map[string]*Schema, len(schemas))
	for _, s := range schemas {
		byName[s.TypeName] = s
	}

	for _, s := range schemas {
		for _, e := range s.Edges {
			target := byName[e.Type]

			if e.Field == "" {
				if ownsColumn(s, e, target) {
					return schema.NewFieldError(s.Table, e.EdgeName,
						fmt.Errorf("%w: edge to %s holds a column but binds no Field", schema.ErrMalformedForeignKey, e.Type))
				}

				a.logger.Debug("skipping edge without column", "schema", s.TypeName, "edge", e.EdgeName)

				continue
			}

			f := s.Field(e.Field)
			if f == nil {
				return schema.NewFieldError(s.Table, e.EdgeName,
					fmt.Errorf("%w: edge binds unknown field %q", schema.ErrMalformedForeignKey, e.Field))
			}

			ref := schema.FormatForeignKey(e.Type, idField)
			if target != nil {
				ref = schema.FormatForeignKey(naming.TypeName(target.Table), target.IDColumn())
			}

			f.ForeignKey = ref
		}
	}

	return nil
}

// ownsColumn reports whether ent stores e as a column of s: unique inverse
// edges, and unique edges with no inverse on the target.
func ownsColumn(s *Schema, e *Edge, target *Schema) bool {
	if !e.Unique {
		return false
	}

	if e.Direction == EdgeFrom || target == nil {
		return true
	}

	for _, back := range target.Edges {
		if back.Direction == EdgeFrom && back.Ref == e.EdgeName && back.Type == s.TypeName {
			return false
		}
	}

	return true
}

// ExtractFields returns the fields of m in declaration order, the implicit
// id first.
func (a *Adapter) ExtractFields(m adapter.Model) ([]adapter.Field, error) {
	s, err := asSchema(m)
	if err != nil {
		return nil, err
	}

	out := make([]adapter.Field, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f
	}

	return out, nil
}

func asSchema(m adapter.Model) (*Schema, error) {
	s, ok := m.(*Schema)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an ent schema", schema.ErrInvalidModel, m)
	}

	return s, nil
}

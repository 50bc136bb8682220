package source

import (
	"go/ast"
	"go/token"
	"go/types"
	"maps"
	"path"
	"slices"
	"strconv"
	"strings"
)

// Namespace is the set of type declarations found in one package.
type Namespace struct {
	Package string
	// Imports maps the local package name to its import path.
	Imports map[string]string
	Symbols []*Symbol
	Fset    *token.FileSet

	pending []*ast.FuncDecl
}

// Symbol is a named type declaration.
type Symbol struct {
	Name    string
	Doc     string
	Type    *ast.TypeSpec
	Methods map[string]*ast.FuncDecl
	Pos     token.Position

	ns *Namespace
}

// NewNamespace creates an empty namespace.
func NewNamespace(fset *token.FileSet) *Namespace {
	if fset == nil {
		fset = token.NewFileSet()
	}

	return &Namespace{
		Imports: make(map[string]string),
		Fset:    fset,
	}
}

// AddFile registers the imports, type declarations and methods of file.
// Files of one package may be added in any order; methods are attached
// to symbols once every file is added (see Link).
func (ns *Namespace) AddFile(file *ast.File) {
	if ns.Package == "" && file.Name != nil {
		ns.Package = file.Name.Name
	}

	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		name := path.Base(p)
		if imp.Name != nil {
			name = imp.Name.Name
		}

		if name == "_" || name == "." {
			continue
		}

		ns.Imports[name] = p
	}

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)

			doc := ts.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}

			ns.Symbols = append(ns.Symbols, &Symbol{
				Name:    ts.Name.Name,
				Doc:     strings.TrimSpace(doc.Text()),
				Type:    ts,
				Methods: make(map[string]*ast.FuncDecl),
				Pos:     ns.Fset.Position(ts.Pos()),
				ns:      ns,
			})
		}
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
			continue
		}

		ns.pending = append(ns.pending, fn)
	}

	ns.Link()
}

// Link attaches pending method declarations to their receiver symbols.
func (ns *Namespace) Link() {
	rest := ns.pending[:0]

	for _, fn := range ns.pending {
		sym := ns.Lookup(receiverName(fn.Recv.List[0].Type))
		if sym == nil {
			rest = append(rest, fn)
			continue
		}

		sym.Methods[fn.Name.Name] = fn
	}

	ns.pending = rest
}

// Lookup returns the symbol with the given name, or nil.
func (ns *Namespace) Lookup(name string) *Symbol {
	for _, s := range ns.Symbols {
		if s.Name == name {
			return s
		}
	}

	return nil
}

// ImportName returns the local name under which importPath is imported.
// A path imported under several names yields the first name in sorted order.
func (ns *Namespace) ImportName(importPath string) (string, bool) {
	for _, name := range slices.Sorted(maps.Keys(ns.Imports)) {
		if ns.Imports[name] == importPath {
			return name, true
		}
	}

	return "", false
}

// ImportsPrefix reports whether any import path starts with prefix.
func (ns *Namespace) ImportsPrefix(prefix string) bool {
	for _, p := range ns.Imports {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}

	return false
}

// Qualify spells name of the package importPath as it is written in the
// symbol's package ("gorm.Model", or "g.Model" under an alias).
func (s *Symbol) Qualify(importPath, name string) string {
	local := path.Base(importPath)
	if s.ns != nil {
		if n, ok := s.ns.ImportName(importPath); ok {
			local = n
		}
	}

	return local + "." + name
}

// Struct returns the struct type of the symbol.
func (s *Symbol) Struct() (*ast.StructType, bool) {
	st, ok := s.Type.Type.(*ast.StructType)
	return st, ok
}

// Method returns the method declared on the symbol with the given name.
func (s *Symbol) Method(name string) (*ast.FuncDecl, bool) {
	fn, ok := s.Methods[name]
	return fn, ok
}

// ExprString renders a type or value expression as Go source.
func ExprString(e ast.Expr) string {
	if e == nil {
		return ""
	}

	return types.ExprString(e)
}

func receiverName(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}

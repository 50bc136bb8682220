package entadapter

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"ormconv/internal/schema"
	"ormconv/internal/source"
)

// call is one link of a builder chain.
type call struct {
	Name string
	Args []ast.Expr
}

// unwindChain splits pkg.Root(args).A(x).B() into "pkg" and the calls in
// source order.
func unwindChain(e ast.Expr) (string, []call, error) {
	var calls []call

	for {
		ce, ok := e.(*ast.CallExpr)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s is not a builder call", schema.ErrUnsupportedType, source.ExprString(e))
		}

		sel, ok := ce.Fun.(*ast.SelectorExpr)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s is not a builder call", schema.ErrUnsupportedType, source.ExprString(e))
		}

		calls = append([]call{{Name: sel.Sel.Name, Args: ce.Args}}, calls...)

		if id, ok := sel.X.(*ast.Ident); ok {
			return id.Name, calls, nil
		}

		e = sel.X
	}
}

// returnedElements returns the elements of the composite literal returned
// by a method such as Fields(). A method returning nil yields no elements.
func returnedElements(fn *ast.FuncDecl) ([]ast.Expr, error) {
	if fn.Body == nil {
		return nil, nil
	}

	for _, stmt := range fn.Body.List {
		ret, ok := stmt.(*ast.ReturnStmt)
		if !ok || len(ret.Results) != 1 {
			continue
		}

		switch r := ret.Results[0].(type) {
		case *ast.CompositeLit:
			return r.Elts, nil
		case *ast.Ident:
			if r.Name == "nil" {
				return nil, nil
			}
		}

		return nil, fmt.Errorf("%w: %s must return a slice literal", schema.ErrUnsupportedType, fn.Name.Name)
	}

	return nil, fmt.Errorf("%w: %s has no return statement", schema.ErrUnsupportedType, fn.Name.Name)
}

func stringArg(c call, i int) (string, error) {
	if i >= len(c.Args) {
		return "", fmt.Errorf("%w: %s needs %d arguments", schema.ErrUnsupportedType, c.Name, i+1)
	}

	lit, ok := c.Args[i].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", fmt.Errorf("%w: %s argument %s is not a string literal",
			schema.ErrUnsupportedType, c.Name, source.ExprString(c.Args[i]))
	}

	return strconv.Unquote(lit.Value)
}

func stringArgs(c call) ([]string, error) {
	out := make([]string, len(c.Args))

	for i := range c.Args {
		s, err := stringArg(c, i)
		if err != nil {
			return nil, err
		}

		out[i] = s
	}

	return out, nil
}

func intArg(c call) (int, error) {
	if len(c.Args) == 1 {
		if lit, ok := c.Args[0].(*ast.BasicLit); ok && lit.Kind == token.INT {
			return strconv.Atoi(lit.Value)
		}
	}

	return 0, fmt.Errorf("%w: %s needs one integer literal", schema.ErrUnsupportedType, c.Name)
}

// typeArg reads the T of a T.Type argument.
func typeArg(c call, i int) (string, error) {
	if i < len(c.Args) {
		if sel, ok := c.Args[i].(*ast.SelectorExpr); ok && sel.Sel.Name == "Type" {
			if id, ok := sel.X.(*ast.Ident); ok {
				return id.Name, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s needs a Schema.Type argument", schema.ErrUnsupportedType, c.Name)
}

// isFunc reports whether e names pkg.name, e.g. time.Now.
func isFunc(e ast.Expr, pkg, name string) bool {
	sel, ok := e.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}

	id, ok := sel.X.(*ast.Ident)

	return ok && id.Name == pkg
}

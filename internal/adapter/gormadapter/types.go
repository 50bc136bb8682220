package gormadapter

import (
	"fmt"
	"go/ast"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"ormconv/internal/schema"
	"ormconv/internal/source"
)

const (
	timePkg    = "time"
	sqlPkg     = "database/sql"
	gormPkg    = "gorm.io/gorm"
	decimalPkg = "github.com/shopspring/decimal"
)

var intTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"byte": true, "rune": true,
}

var builtinTypes = map[string]bool{
	"string": true, "bool": true, "float32": true, "float64": true,
}

// sqlNullTypes maps database/sql wrappers to the Go type they carry.
var sqlNullTypes = map[string]GoType{
	"NullString":  {Name: "string"},
	"NullBool":    {Name: "bool"},
	"NullByte":    {Name: "uint8"},
	"NullInt16":   {Name: "int16"},
	"NullInt32":   {Name: "int32"},
	"NullInt64":   {Name: "int64"},
	"NullFloat64": {Name: "float64"},
	"NullTime":    {Package: timePkg, Name: "Time"},
}

// sqlTypeArgs matches "decimal(10,2)", "numeric(8)", "varchar(32)".
var sqlTypeArgs = regexp.MustCompile(`^\s*([a-z ]+?)\s*(?:\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\))?\s*$`)

// parseSQLType splits a type tag into its base name and numeric arguments.
func parseSQLType(s string) (base string, args []int) {
	m := sqlTypeArgs.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return strings.ToLower(strings.TrimSpace(s)), nil
	}

	for _, a := range m[2:] {
		if a == "" {
			break
		}

		n, _ := strconv.Atoi(a)
		args = append(args, n)
	}

	return m[1], args
}

func isDecimalSQLType(s string) bool {
	base, _ := parseSQLType(s)
	return base == "decimal" || base == "numeric"
}

func isFloat(t GoType) bool {
	return isBuiltin(t, "float32", "float64")
}

// isBuiltin reports whether t is a predeclared type, one of names if given.
func isBuiltin(t GoType, names ...string) bool {
	if t.Package != "" || t.Local || t.Slice {
		return false
	}

	return len(names) == 0 || slices.Contains(names, t.Name)
}

// newTypeMapper registers the GORM column types. Decimal and Date are
// registered before Float and DateTime, which share their Go carriers.
func newTypeMapper() *schema.TypeMapper[GoType] {
	return schema.NewTypeMapper[GoType]("gorm").
		Register(schema.Decimal,
			func(p schema.Params) (GoType, error) {
				return GoType{Name: "float64", SQLType: decimalSQLType(p)}, nil
			},
			func(t GoType) bool {
				return (isFloat(t) && isDecimalSQLType(t.SQLType)) || t.Is(decimalPkg, "Decimal")
			}).
		Register(schema.Float,
			func(schema.Params) (GoType, error) { return GoType{Name: "float64"}, nil },
			isFloat).
		Register(schema.Integer,
			func(schema.Params) (GoType, error) { return GoType{Name: "int"}, nil },
			func(t GoType) bool { return isBuiltin(t) && intTypes[t.Name] }).
		Register(schema.String,
			func(schema.Params) (GoType, error) { return GoType{Name: "string"}, nil },
			func(t GoType) bool { return isBuiltin(t, "string") }).
		Register(schema.Boolean,
			func(schema.Params) (GoType, error) { return GoType{Name: "bool"}, nil },
			func(t GoType) bool { return isBuiltin(t, "bool") }).
		Register(schema.Date,
			func(schema.Params) (GoType, error) {
				return GoType{Package: timePkg, Name: "Time", SQLType: "date"}, nil
			},
			func(t GoType) bool {
				base, _ := parseSQLType(t.SQLType)
				return t.Is(timePkg, "Time") && base == "date"
			}).
		Register(schema.DateTime,
			func(schema.Params) (GoType, error) { return GoType{Package: timePkg, Name: "Time"}, nil },
			func(t GoType) bool { return t.Is(timePkg, "Time") || t.Is(gormPkg, "DeletedAt") }).
		Register(schema.Bytes,
			func(schema.Params) (GoType, error) { return GoType{Name: "[]byte"}, nil },
			func(t GoType) bool { return isBuiltin(t, "[]byte") })
}

// decimalSQLType renders the type tag of a decimal column. The precision and
// scale pair is written as given.
func decimalSQLType(p schema.Params) string {
	switch {
	case p.Precision != nil && p.Scale != nil:
		return fmt.Sprintf("decimal(%d,%d)", *p.Precision, *p.Scale)
	case p.Precision != nil:
		return fmt.Sprintf("decimal(%d)", *p.Precision)
	default:
		return "decimal"
	}
}

// resolveType turns a field type expression into a GoType, following
// import aliases, local named types and database/sql wrappers.
func resolveType(ns *source.Namespace, e ast.Expr) GoType {
	switch t := e.(type) {
	case *ast.StarExpr:
		gt := resolveType(ns, t.X)
		gt.Pointer = true

		return gt

	case *ast.ParenExpr:
		return resolveType(ns, t.X)

	case *ast.Ident:
		if intTypes[t.Name] || builtinTypes[t.Name] {
			return GoType{Name: t.Name}
		}

		if sym := ns.Lookup(t.Name); sym != nil {
			if _, ok := sym.Struct(); !ok {
				// type Status string: GORM stores the underlying type.
				if under := resolveType(ns, sym.Type.Type); !under.Local {
					return under
				}
			}
		}

		return GoType{Name: t.Name, Local: true}

	case *ast.SelectorExpr:
		pkgIdent, ok := t.X.(*ast.Ident)
		if !ok {
			break
		}

		pkg := ns.Imports[pkgIdent.Name]
		if pkg == "" {
			pkg = pkgIdent.Name
		}

		if pkg == sqlPkg {
			if inner, ok := sqlNullTypes[t.Sel.Name]; ok {
				inner.Pointer = true
				return inner
			}
		}

		return GoType{Package: pkg, Name: t.Sel.Name}

	case *ast.IndexExpr:
		// sql.Null[T]
		if sel, ok := t.X.(*ast.SelectorExpr); ok && sel.Sel.Name == "Null" {
			if id, ok := sel.X.(*ast.Ident); ok && ns.Imports[id.Name] == sqlPkg {
				inner := resolveType(ns, t.Index)
				inner.Pointer = true

				return inner
			}
		}

	case *ast.ArrayType:
		if t.Len != nil {
			break
		}

		elem := resolveType(ns, t.Elt)
		if isBuiltin(elem, "byte", "uint8") && !elem.Pointer {
			return GoType{Name: "[]byte"}
		}

		if elem.Local {
			elem.Slice = true
			return elem
		}
	}

	return GoType{Name: source.ExprString(e)}
}

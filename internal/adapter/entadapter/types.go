package entadapter

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"ormconv/internal/schema"
)

// Dialect names as defined by entgo.io/ent/dialect.
const (
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// DefaultDialects are the dialects SchemaType maps are written for.
var DefaultDialects = []string{DialectMySQL, DialectPostgres, DialectSQLite}

// dialectConsts maps dialect names to their entgo.io/ent/dialect constants.
var dialectConsts = map[string]string{
	DialectMySQL:    "MySQL",
	DialectPostgres: "Postgres",
	DialectSQLite:   "SQLite",
	"gremlin":       "Gremlin",
}

var intBuilders = []string{"Int", "Int8", "Int16", "Int32", "Int64", "Uint", "Uint8", "Uint16", "Uint32", "Uint64"}

var sqlTypeArgs = regexp.MustCompile(`^\s*([a-z ]+?)\s*(?:\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\))?\s*$`)

// parseSQLType splits "decimal(10,2)" into "decimal" and [10 2].
func parseSQLType(s string) (string, []int) {
	m := sqlTypeArgs.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return strings.ToLower(strings.TrimSpace(s)), nil
	}

	var args []int

	for _, a := range m[2:] {
		if a == "" {
			break
		}

		n, _ := strconv.Atoi(a)
		args = append(args, n)
	}

	return m[1], args
}

func sqlBase(t FieldType) string {
	base, _ := parseSQLType(t.SQLType())
	return base
}

func builderIs(t FieldType, names ...string) bool {
	return slices.Contains(names, t.Builder)
}

// newTypeMapper registers the ent field builders. Decimal and Date are
// registered before Float and DateTime, which share their builders.
func newTypeMapper(dialects []string) *schema.TypeMapper[FieldType] {
	return schema.NewTypeMapper[FieldType]("ent").
		Register(schema.Decimal,
			func(p schema.Params) (FieldType, error) {
				return FieldType{Builder: "Float", SchemaType: decimalSchemaType(dialects, p)}, nil
			},
			func(t FieldType) bool {
				base := sqlBase(t)
				return builderIs(t, "Float", "Float32") && (base == "decimal" || base == "numeric")
			}).
		Register(schema.Float,
			func(p schema.Params) (FieldType, error) {
				return FieldType{Builder: "Float", SchemaType: floatSchemaType(dialects, p)}, nil
			},
			func(t FieldType) bool { return builderIs(t, "Float", "Float32") }).
		Register(schema.Integer,
			func(schema.Params) (FieldType, error) { return FieldType{Builder: "Int"}, nil },
			func(t FieldType) bool { return builderIs(t, intBuilders...) }).
		Register(schema.String,
			func(schema.Params) (FieldType, error) { return FieldType{Builder: "String"}, nil },
			func(t FieldType) bool { return builderIs(t, "String", "Text") }).
		Register(schema.Boolean,
			func(schema.Params) (FieldType, error) { return FieldType{Builder: "Bool"}, nil },
			func(t FieldType) bool { return builderIs(t, "Bool") }).
		Register(schema.Date,
			func(schema.Params) (FieldType, error) {
				return FieldType{Builder: "Time", SchemaType: sameForAll(dialects, "date")}, nil
			},
			func(t FieldType) bool { return builderIs(t, "Time") && sqlBase(t) == "date" }).
		Register(schema.DateTime,
			func(p schema.Params) (FieldType, error) {
				return FieldType{Builder: "Time", SchemaType: timeSchemaType(dialects, p)}, nil
			},
			func(t FieldType) bool { return builderIs(t, "Time") }).
		Register(schema.Bytes,
			func(schema.Params) (FieldType, error) { return FieldType{Builder: "Bytes"}, nil },
			func(t FieldType) bool { return builderIs(t, "Bytes") })
}

func sameForAll(dialects []string, sqlType string) map[string]string {
	m := make(map[string]string, len(dialects))
	for _, d := range dialects {
		m[d] = sqlType
	}

	return m
}

// decimalSchemaType writes the precision and scale pair as given; postgres
// spells the type numeric.
func decimalSchemaType(dialects []string, p schema.Params) map[string]string {
	args := typeArgs(p)

	m := make(map[string]string, len(dialects))
	for _, d := range dialects {
		base := "decimal"
		if d == DialectPostgres {
			base = "numeric"
		}

		m[d] = base + args
	}

	return m
}

// floatSchemaType keeps a float precision, which ent has no builder call for.
func floatSchemaType(dialects []string, p schema.Params) map[string]string {
	if p.Precision == nil {
		return nil
	}

	return sameForAll(dialects, "float"+typeArgs(p))
}

// timeSchemaType keeps a fractional-second precision; postgres spells the
// type timestamp.
func timeSchemaType(dialects []string, p schema.Params) map[string]string {
	if p.Precision == nil {
		return nil
	}

	m := make(map[string]string, len(dialects))
	for _, d := range dialects {
		base := "datetime"
		if d == DialectPostgres {
			base = "timestamp"
		}

		m[d] = fmt.Sprintf("%s(%d)", base, *p.Precision)
	}

	return m
}

func typeArgs(p schema.Params) string {
	switch {
	case p.Precision != nil && p.Scale != nil:
		return fmt.Sprintf("(%d,%d)", *p.Precision, *p.Scale)
	case p.Precision != nil:
		return fmt.Sprintf("(%d)", *p.Precision)
	default:
		return ""
	}
}

package entadapter

import (
	"go/ast"
	"log/slog"
	"slices"

	"ormconv/internal/adapter"
	"ormconv/internal/schema"
	"ormconv/internal/source"
)

// Key is the registry key of the ent adapter.
const Key = source.FrameworkEnt

// Import paths of the ent packages schemas are written with.
const (
	entPkg     = "entgo.io/ent"
	fieldPkg   = "entgo.io/ent/schema/field"
	edgePkg    = "entgo.io/ent/schema/edge"
	indexPkg   = "entgo.io/ent/schema/index"
	mixinPkg   = "entgo.io/ent/schema/mixin"
	schemaPkg  = "entgo.io/ent/schema"
	dialectPkg = "entgo.io/ent/dialect"
	entsqlPkg  = "entgo.io/ent/dialect/entsql"
	timePkg    = "time"
)

// Adapter implements adapter.Adapter and adapter.Linker for ent.
type Adapter struct {
	mapper   *schema.TypeMapper[FieldType]
	dialects []string
	logger   *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithDialects sets the dialects SchemaType maps are written for.
func WithDialects(dialects ...string) Option {
	return func(a *Adapter) {
		if len(dialects) == 0 {
			return
		}

		d := slices.Clone(dialects)
		slices.Sort(d)
		a.dialects = slices.Compact(d)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// New creates an ent adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		dialects: DefaultDialects,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.mapper = newTypeMapper(a.dialects)
	a.logger = a.logger.With("adapter", Key)

	return a
}

var (
	_ adapter.Adapter      = (*Adapter)(nil)
	_ adapter.Linker       = (*Adapter)(nil)
	_ adapter.PackageNamer = (*Adapter)(nil)
)

// Key returns "ent".
func (a *Adapter) Key() string { return Key }

// Mapper returns the type mapper.
func (a *Adapter) Mapper() *schema.TypeMapper[FieldType] { return a.mapper }

// DefaultPackage is the package ent schemas live in.
func (a *Adapter) DefaultPackage() string { return "schema" }

// Recognizes reports whether sym is an ent schema: a struct embedding
// ent.Schema, under whatever name entgo.io/ent is imported.
func (a *Adapter) Recognizes(sym *source.Symbol) bool {
	return embeds(sym, sym.Qualify(entPkg, "Schema"))
}

// embeds reports whether sym is a struct with an embedded field of type
// typ, e.g. "mixin.Schema".
func embeds(sym *source.Symbol, typ string) bool {
	st, ok := sym.Struct()
	if !ok {
		return false
	}

	return slices.ContainsFunc(st.Fields.List, func(f *ast.Field) bool {
		return len(f.Names) == 0 && source.ExprString(f.Type) == typ
	})
}

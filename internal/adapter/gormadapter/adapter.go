package gormadapter

import (
	"go/ast"
	"log/slog"

	"ormconv/internal/adapter"
	"ormconv/internal/schema"
	"ormconv/internal/source"
)

// Key is the registry key of the GORM adapter.
const Key = source.FrameworkGORM

// Adapter implements adapter.Adapter for GORM.
type Adapter struct {
	mapper          *schema.TypeMapper[GoType]
	pointerNullable bool
	logger          *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithPointerNullable controls whether nullable columns are built as
// pointer types. Enabled by default.
func WithPointerNullable(enabled bool) Option {
	return func(a *Adapter) { a.pointerNullable = enabled }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// New creates a GORM adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		mapper:          newTypeMapper(),
		pointerNullable: true,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.logger = a.logger.With("adapter", Key)

	return a
}

var (
	_ adapter.Adapter      = (*Adapter)(nil)
	_ adapter.PackageNamer = (*Adapter)(nil)
)

// Key returns "gorm".
func (a *Adapter) Key() string { return Key }

// DefaultPackage is the package generated GORM models are written to.
func (a *Adapter) DefaultPackage() string { return "models" }

// Mapper returns the type mapper.
func (a *Adapter) Mapper() *schema.TypeMapper[GoType] { return a.mapper }

// Recognizes reports whether sym is a GORM model: a struct that embeds
// gorm.Model, declares TableName, or carries a gorm tag.
func (a *Adapter) Recognizes(sym *source.Symbol) bool {
	st, ok := sym.Struct()
	if !ok {
		return false
	}

	if _, ok := sym.Method("TableName"); ok {
		return true
	}

	for _, f := range st.Fields.List {
		if isGORMModelEmbed(f, sym.Qualify(gormPkg, "Model")) {
			return true
		}

		if _, ok := source.FieldTag(f).Lookup("gorm"); ok {
			return true
		}
	}

	return false
}

func gormModel(ns *source.Namespace) string {
	name, ok := ns.ImportName(gormPkg)
	if !ok {
		name = "gorm"
	}

	return name + ".Model"
}

// isGORMModelEmbed reports whether f embeds gorm.Model, spelled model in
// the declaring file.
func isGORMModelEmbed(f *ast.Field, model string) bool {
	if len(f.Names) != 0 {
		return false
	}

	return source.ExprString(f.Type) == model
}

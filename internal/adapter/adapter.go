package adapter

import (
	"ormconv/internal/printer"
	"ormconv/internal/schema"
	"ormconv/internal/source"
)

// Model is a native model descriptor.
type Model interface {
	Name() string
}

// Field is a native field descriptor.
type Field interface {
	Name() string
}

// Adapter translates between one framework's native models and the IR.
type Adapter interface {
	// Key is the registry key, e.g. "gorm".
	Key() string
	// Recognizes reports whether sym declares a model of this framework.
	Recognizes(sym *source.Symbol) bool
	// ListModels returns the recognized models of ns in declaration order.
	ListModels(ns *source.Namespace) ([]Model, error)
	// ExtractFields returns the native fields of m in declaration order.
	ExtractFields(m Model) ([]Field, error)
	// ToSchema extracts m into the IR.
	ToSchema(m Model) (*schema.Model, error)
	// FromSchema constructs a native model from the IR.
	FromSchema(m *schema.Model) (Model, error)
	NewModelPrinter(m Model) (printer.ModelPrinter, error)
	NewModulePrinter(pkg string, models ...printer.ModelPrinter) printer.ModulePrinter
}

// Linker is implemented by adapters that complete cross-model wiring once
// every model of a request has been constructed.
type Linker interface {
	Link(models []Model) error
}

// PackageNamer is implemented by adapters whose generated files
// conventionally live in a package of a fixed name.
type PackageNamer interface {
	DefaultPackage() string
}

package printer

// Field is a native field descriptor as understood by the adapter that built it.
type Field interface {
	Name() string
}

// ModelPrinter renders one native model.
type ModelPrinter interface {
	// ClassName is the Go type name of the model.
	ClassName() string
	// Metadata renders table-level declarations (table name, composite unique).
	Metadata() string
	// Field renders one field line.
	Field(f Field) (string, error)
	// Fields renders every field in declaration order, one per line.
	Fields() (string, error)
	// ImportTypes lists the import paths the rendered model needs.
	ImportTypes() []string
	// Model renders the complete model block.
	Model() (string, error)
}

// ModulePrinter renders a Go file holding several models.
type ModulePrinter interface {
	ImportTypes() string
	ImportBaseData() string
	Module() ([]byte, error)
}

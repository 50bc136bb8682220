package convert

import (
	"errors"
	"fmt"
	"log/slog"

	"ormconv/internal/adapter"
	"ormconv/internal/printer"
	"ormconv/internal/schema"
	"ormconv/internal/source"
)

// ErrModelLoadFailure is returned when the input declares no model of the
// source framework.
var ErrModelLoadFailure = errors.New("no models loaded")

// Converter translates model declarations between registered adapters.
type Converter struct {
	registry *adapter.Registry
	pkg      string
	logger   *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// WithPackage sets the package clause of generated files. Without it the
// destination's conventional package is used, or the input package.
func WithPackage(pkg string) Option {
	return func(c *Converter) { c.pkg = pkg }
}

// New creates a Converter over registry.
func New(registry *adapter.Registry, opts ...Option) *Converter {
	c := &Converter{
		registry: registry,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With("component", "convert")

	return c
}

// Extract lists the models of ns recognized by the from adapter and
// extracts them into the IR, in declaration order.
func (c *Converter) Extract(ns *source.Namespace, from string) ([]*schema.Model, error) {
	src, err := c.registry.Get(from)
	if err != nil {
		return nil, err
	}

	natives, err := src.ListModels(ns)
	if err != nil {
		return nil, fmt.Errorf("listing %s models: %w", src.Key(), err)
	}

	if len(natives) == 0 {
		return nil, fmt.Errorf("%w: package %s declares no %s models", ErrModelLoadFailure, ns.Package, src.Key())
	}

	models := make([]*schema.Model, 0, len(natives))

	for _, m := range natives {
		sm, err := src.ToSchema(m)
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", m.Name(), err)
		}

		c.logger.Debug("extracted model", "adapter", src.Key(), "model", m.Name(), "table", sm.Table, "fields", len(sm.Fields))

		models = append(models, sm)
	}

	return models, nil
}

// Convert extracts the models of ns with the from adapter and renders them
// with the to adapter.
func (c *Converter) Convert(ns *source.Namespace, from, to string) ([]byte, error) {
	models, err := c.Extract(ns, from)
	if err != nil {
		return nil, err
	}

	return c.Render(models, to, ns.Package)
}

// Render constructs the to adapter's native models from the IR and prints
// them as one file. fallbackPkg is used when neither WithPackage nor the
// adapter names a package.
func (c *Converter) Render(models []*schema.Model, to, fallbackPkg string) ([]byte, error) {
	dst, err := c.registry.Get(to)
	if err != nil {
		return nil, err
	}

	natives := make([]adapter.Model, 0, len(models))

	for _, sm := range models {
		m, err := dst.FromSchema(sm)
		if err != nil {
			return nil, fmt.Errorf("constructing %s model for %s: %w", dst.Key(), sm.Table, err)
		}

		c.logger.Debug("constructed model", "adapter", dst.Key(), "model", m.Name(), "table", sm.Table)

		natives = append(natives, m)
	}

	if linker, ok := dst.(adapter.Linker); ok {
		if err := linker.Link(natives); err != nil {
			return nil, fmt.Errorf("linking %s models: %w", dst.Key(), err)
		}
	}

	printers := make([]printer.ModelPrinter, 0, len(natives))

	for _, m := range natives {
		mp, err := dst.NewModelPrinter(m)
		if err != nil {
			return nil, err
		}

		printers = append(printers, mp)
	}

	out, err := dst.NewModulePrinter(c.packageName(dst, fallbackPkg), printers...).Module()
	if err != nil {
		return out, fmt.Errorf("printing %s module: %w", dst.Key(), err)
	}

	return out, nil
}

func (c *Converter) packageName(dst adapter.Adapter, fallback string) string {
	if c.pkg != "" {
		return c.pkg
	}

	if pn, ok := dst.(adapter.PackageNamer); ok {
		return pn.DefaultPackage()
	}

	if fallback != "" {
		return fallback
	}

	return "models"
}

// Detect returns the key of the framework ns is written for.
func (c *Converter) Detect(ns *source.Namespace) (string, error) {
	key, err := source.DetectNamespace(ns)
	if err != nil {
		return "", err
	}

	if _, err := c.registry.Get(key); err != nil {
		return "", err
	}

	return key, nil
}

// ConvertSource parses one Go file, detects its framework and converts it
// to the to adapter.
func (c *Converter) ConvertSource(filename string, src []byte, to string) ([]byte, error) {
	ns, err := source.ParseSource(filename, src)
	if err != nil {
		return nil, err
	}

	from, err := c.Detect(ns)
	if err != nil {
		return nil, err
	}

	c.logger.Info("converting", "file", filename, "from", from, "to", to)

	return c.Convert(ns, from, to)
}

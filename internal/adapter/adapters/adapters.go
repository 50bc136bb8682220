// Package adapters wires the built-in framework adapters into a registry.
package adapters

import (
	"log/slog"

	"ormconv/internal/adapter"
	"ormconv/internal/adapter/entadapter"
	"ormconv/internal/adapter/gormadapter"
	"ormconv/internal/config"
)

// Default returns a registry holding the GORM and ent adapters configured
// from cfg. A nil cfg uses config.Default.
func Default(cfg *config.Config, logger *slog.Logger) *adapter.Registry {
	if cfg == nil {
		cfg = config.Default()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return adapter.NewRegistry(
		gormadapter.New(
			gormadapter.WithPointerNullable(cfg.GORM.PointerNullable()),
			gormadapter.WithLogger(logger),
		),
		entadapter.New(
			entadapter.WithDialects(cfg.Ent.Dialects...),
			entadapter.WithLogger(logger),
		),
	)
}

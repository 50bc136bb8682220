package gormadapter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ormconv/internal/adapter"
	"ormconv/internal/printer"
	"ormconv/internal/schema"
	"ormconv/internal/source"
)

// extract parses src and runs ListModels + ToSchema over every model.
func extract(t *testing.T, a *Adapter, src string) []*schema.Model {
	t.Helper()

	models, err := extractErr(a, src)
	require.NoError(t, err)

	return models
}

func extractErr(a *Adapter, src string) ([]*schema.Model, error) {
	ns, err := source.ParseSource("models.go", []byte(src))
	if err != nil {
		return nil, err
	}

	natives, err := a.ListModels(ns)
	if err != nil {
		return nil, err
	}

	var out []*schema.Model

	for _, m := range natives {
		sm, err := a.ToSchema(m)
		if err != nil {
			return nil, err
		}

		out = append(out, sm)
	}

	return out, nil
}

// render builds native models from the IR and prints them as one file.
func render(t *testing.T, a *Adapter, models ...*schema.Model) string {
	t.Helper()

	var printers []printer.ModelPrinter

	for _, sm := range models {
		native, err := a.FromSchema(sm)
		require.NoError(t, err)

		mp, err := a.NewModelPrinter(native)
		require.NoError(t, err)

		printers = append(printers, mp)
	}

	out, err := a.NewModulePrinter("models", printers...).Module()
	require.NoError(t, err)

	return string(out)
}

// squash collapses whitespace runs so assertions ignore gofmt alignment.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func modelByName(t *testing.T, models []adapter.Model, name string) *Model {
	t.Helper()

	for _, m := range models {
		if m.Name() == name {
			return m.(*Model)
		}
	}

	require.Failf(t, "model not found", "%s", name)

	return nil
}

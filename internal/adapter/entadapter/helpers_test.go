package entadapter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ormconv/internal/adapter"
	"ormconv/internal/printer"
	"ormconv/internal/schema"
	"ormconv/internal/source"
)

// header is prepended to test schemas.
const header = `package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)
`

func extract(t *testing.T, a *Adapter, src string) []*schema.Model {
	t.Helper()

	models, err := extractErr(a, src)
	require.NoError(t, err)

	return models
}

func extractErr(a *Adapter, src string) ([]*schema.Model, error) {
	ns, err := source.ParseSource("schema.go", []byte(src))
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

func list(t *testing.T, a *Adapter, src string) []adapter.Model {
	t.Helper()

	ns, err := source.ParseSource("schema.go", []byte(src))
	require.NoError(t, err)

	models, err := a.ListModels(ns)
	require.NoError(t, err)

	return models
}

// construct builds and links native schemas from the IR.
func construct(t *testing.T, a *Adapter, models ...*schema.Model) []adapter.Model {
	t.Helper()

	natives := make([]adapter.Model, 0, len(models))

	for _, sm := range models {
		native, err := a.FromSchema(sm)
		require.NoError(t, err)

		natives = append(natives, native)
	}

	require.NoError(t, a.Link(natives))

	return natives
}

func render(t *testing.T, a *Adapter, models ...*schema.Model) string {
	t.Helper()

	var printers []printer.ModelPrinter

	for _, native := range construct(t, a, models...) {
		mp, err := a.NewModelPrinter(native)
		require.NoError(t, err)

		printers = append(printers, mp)
	}

	out, err := a.NewModulePrinter("schema", printers...).Module()
	require.NoError(t, err)

	return string(out)
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

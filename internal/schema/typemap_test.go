package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqlMapper() *TypeMapper[string] {
	return NewTypeMapper[string]("sql").
		Register(Integer,
			func(Params) (string, error) { return "INTEGER", nil },
			func(s string) bool { return s == "INTEGER" }).
		Register(Decimal,
			func(p Params) (string, error) { return "NUMERIC", nil },
			func(s string) bool { return strings.HasPrefix(s, "NUMERIC") }).
		Register(Float,
			func(Params) (string, error) { return "REAL", nil },
			func(s string) bool { return s == "REAL" || strings.HasPrefix(s, "NUMERIC") })
}

func TestTypeMapper_Describe(t *testing.T) {
	m := sqlMapper()

	native, err := m.Describe(Integer, Params{})
	require.NoError(t, err)
	assert.Equal(t, "INTEGER", native)

	_, err = m.Describe(Bytes, Params{})
	require.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestTypeMapper_ClassifyUsesRegistrationOrder(t *testing.T) {
	m := sqlMapper()

	k, err := m.Classify("NUMERIC(10,2)")
	require.NoError(t, err)
	assert.Equal(t, Decimal, k)

	k, err = m.Classify("REAL")
	require.NoError(t, err)
	assert.Equal(t, Float, k)
}

func TestTypeMapper_ClassifyUnknown(t *testing.T) {
	_, err := sqlMapper().Classify("JSONB")
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "JSONB")
}

func TestTypeMapper_Kinds(t *testing.T) {
	assert.Equal(t, []Kind{Integer, Decimal, Float}, sqlMapper().Kinds())
}

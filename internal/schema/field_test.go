package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewField_Defaults(t *testing.T) {
	f := NewField(String, "nickname")

	assert.Equal(t, String, f.Kind)
	assert.True(t, f.Nullable)
	assert.False(t, f.Unique)
	assert.False(t, f.PrimaryKey)
	assert.Nil(t, f.Default)
	assert.Empty(t, f.Params.Keys())
}

func TestNewField_PrimaryKeyNormalization(t *testing.T) {
	tests := []struct {
		name string
		opts []FieldOption
	}{
		{"pk first", []FieldOption{WithPrimaryKey(), WithNullable(true), WithUnique(false)}},
		{"pk last", []FieldOption{WithNullable(true), WithUnique(false), WithPrimaryKey()}},
		{"pk only", []FieldOption{WithPrimaryKey()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewField(Integer, "id", tt.opts...)

			assert.True(t, f.PrimaryKey)
			assert.False(t, f.Nullable)
			assert.True(t, f.Unique)
		})
	}
}

func TestParams_Keys(t *testing.T) {
	f := NewField(Date, "birthday", WithAutoOnUpdate(), WithLength(4), WithScale(2), WithAutoOnCreate())

	assert.Equal(t, []string{ParamLength, ParamScale, ParamAutoOnCreate, ParamAutoOnUpdate}, f.Params.Keys())
	assert.True(t, f.Params.IsAuto())
	assert.Equal(t, 4, IntValue(f.Params.Length))
	assert.Equal(t, 0, IntValue(f.Params.Precision))
}

func TestCheckDefault(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		value   any
		wantErr bool
	}{
		{"nil", Integer, nil, false},
		{"int64", Integer, int64(3), false},
		{"int is rejected", Integer, 3, true},
		{"string", String, "x", false},
		{"bool", Boolean, true, false},
		{"bool as string", Boolean, "true", true},
		{"float64", Float, 1.1, false},
		{"decimal literal", Decimal, "10.25", false},
		{"decimal garbage", Decimal, "ten", true},
		{"date", Date, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"datetime", DateTime, time.Now(), false},
		{"bytes", Bytes, []byte("1010"), false},
		{"bytes as string", Bytes, "1010", true},
		{"invalid kind", Kind(0), int64(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDefault(tt.kind, tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidDefault)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestKind(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	k, err := ParseKind("datetime")
	require.NoError(t, err)
	assert.Equal(t, DateTime, k)

	_, err = ParseKind("json")
	require.ErrorIs(t, err, ErrUnsupportedKind)

	assert.False(t, Kind(0).Valid())
	assert.Equal(t, "Kind(0)", Kind(0).String())
	assert.True(t, Date.IsTemporal())
	assert.False(t, Integer.IsTemporal())
}

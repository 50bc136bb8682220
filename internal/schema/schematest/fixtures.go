// Package schematest provides IR fixtures and comparison helpers for adapter
// tests.
package schematest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ormconv/internal/schema"
)

// UserModel is a nine-field model with a composite unique pair
// (level, coeff) exercising every scalar kind and both auto flags.
func UserModel(t testing.TB) *schema.Model {
	t.Helper()

	m, err := schema.NewModel("user", []*schema.Field{
		schema.NewField(schema.Integer, "id", schema.WithPrimaryKey(), schema.WithDoc("UserId")),
		schema.NewField(schema.Integer, "level", schema.WithDoc("User level")),
		schema.NewField(schema.String, "nickname", schema.WithLength(32), schema.WithUnique(true), schema.WithDoc("Nickname")),
		schema.NewField(schema.Boolean, "is_active", schema.WithDefault(true)),
		schema.NewField(schema.Float, "coeff", schema.WithPrecision(8), schema.WithDefault(1.1)),
		schema.NewField(schema.DateTime, "reg_time", schema.WithAutoOnCreate()),
		schema.NewField(schema.Date, "birthday", schema.WithAutoOnCreate(), schema.WithAutoOnUpdate()),
		schema.NewField(schema.Bytes, "signature", schema.WithNullable(false), schema.WithDefault([]byte("1010")), schema.WithLength(4)),
		schema.NewField(schema.Decimal, "balance", schema.WithPrecision(2), schema.WithScale(10)),
	},
		schema.WithModelDoc("Some User Model"),
		schema.WithUniqueTogether([]string{"level", "coeff"}),
	)
	require.NoError(t, err)

	return m
}

// PaymentModel is a three-field model with a foreign key to User.id.
func PaymentModel(t testing.TB) *schema.Model {
	t.Helper()

	m, err := schema.NewModel("payment", []*schema.Field{
		schema.NewField(schema.Integer, "id", schema.WithPrimaryKey(), schema.WithDoc("UserId")),
		schema.NewField(schema.Decimal, "payment"),
		schema.NewField(schema.Integer, "user_id", schema.WithForeignKey("User.id"), schema.WithNullable(false), schema.WithDoc("UserId")),
	}, schema.WithModelDoc("Some Payment"))
	require.NoError(t, err)

	return m
}

// Models returns the User and Payment fixtures in declaration order.
func Models(t testing.TB) []*schema.Model {
	t.Helper()
	return []*schema.Model{UserModel(t), PaymentModel(t)}
}

// AssertEquivalent checks that got describes the same table as want: table
// name, doc, composite unique constraints and every field property.
func AssertEquivalent(t testing.TB, want, got *schema.Model) bool {
	t.Helper()

	ok := assert.Equal(t, want.Table, got.Table, "table")
	ok = assert.Equal(t, want.Doc, got.Doc, "%s: doc", want.Table) && ok
	ok = assert.Equal(t, want.UniqueTogether, got.UniqueTogether, "%s: unique together", want.Table) && ok

	if !assert.Equal(t, want.FieldNames(), got.FieldNames(), "%s: fields", want.Table) {
		return false
	}

	for i, wf := range want.Fields {
		ok = AssertFieldEquivalent(t, wf, got.Fields[i]) && ok
	}

	return ok
}

// AssertFieldEquivalent compares every property of two fields except
// TableRelated. Time defaults compare by instant.
func AssertFieldEquivalent(t testing.TB, want, got *schema.Field) bool {
	t.Helper()

	name := want.TableRelated + "." + want.Name

	ok := assert.Equal(t, want.Kind, got.Kind, "%s: kind", name)
	ok = assert.Equal(t, want.PrimaryKey, got.PrimaryKey, "%s: primary key", name) && ok
	ok = assert.Equal(t, want.Nullable, got.Nullable, "%s: nullable", name) && ok
	ok = assert.Equal(t, want.Unique, got.Unique, "%s: unique", name) && ok
	ok = assert.Equal(t, want.ForeignKey, got.ForeignKey, "%s: foreign key", name) && ok
	ok = assert.Equal(t, want.Doc, got.Doc, "%s: doc", name) && ok
	ok = assert.Equal(t, want.Params, got.Params, "%s: params", name) && ok

	if wt, isTime := want.Default.(time.Time); isTime {
		gt, gotTime := got.Default.(time.Time)
		ok = assert.True(t, gotTime && wt.Equal(gt), "%s: default %v, got %v", name, want.Default, got.Default) && ok
	} else {
		ok = assert.Equal(t, want.Default, got.Default, "%s: default", name) && ok
	}

	return ok
}

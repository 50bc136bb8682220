package gormadapter

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ormconv/internal/schema"
	"ormconv/internal/schema/schematest"
	"ormconv/internal/source"
)

func TestToSchema_NativeFixture(t *testing.T) {
	src, err := os.ReadFile("testdata/models.go")
	require.NoError(t, err)

	models := extract(t, New(), string(src))
	require.Len(t, models, 2)

	schematest.AssertEquivalent(t, schematest.UserModel(t), models[0])
	schematest.AssertEquivalent(t, schematest.PaymentModel(t), models[1])
}

func TestRecognizes(t *testing.T) {
	ns, err := source.ParseSource("m.go", []byte(`package m

import "gorm.io/gorm"

type Embedded struct{ gorm.Model }

type Tagged struct {
	Name string `+"`gorm:\"size:10\"`"+`
}

type Named struct{ Name string }

func (Named) TableName() string { return "named" }

type Plain struct{ Name string }

type Status string
`))
	require.NoError(t, err)

	a := New()

	var recognized []string

	for _, sym := range ns.Symbols {
		if a.Recognizes(sym) {
			recognized = append(recognized, sym.Name)
		}
	}

	assert.Equal(t, []string{"Embedded", "Tagged", "Named"}, recognized)
}

func TestListModels_AliasedGORMModel(t *testing.T) {
	models := extract(t, New(), `package m

import g "gorm.io/gorm"

type Order struct {
	g.Model
	Total int
}
`)
	require.Len(t, models, 1)
	assert.Equal(t, "orders", models[0].Table)
	assert.Equal(t, []string{"id", "created_at", "updated_at", "deleted_at", "total"}, models[0].FieldNames())

	pk, ok := models[0].PrimaryKey()
	require.True(t, ok)
	assert.Equal(t, "id", pk.Name)
}

func TestListModels_Conventions(t *testing.T) {
	models := extract(t, New(), `package m

import "gorm.io/gorm"

type UserAccount struct {
	gorm.Model
	Email string `+"`gorm:\"uniqueIndex\"`"+`
	Name  *string
}
`)
	require.Len(t, models, 1)

	m := models[0]
	assert.Equal(t, "user_accounts", m.Table)
	assert.Equal(t, schema.DefaultModelDoc, m.Doc)
	assert.Equal(t, []string{"id", "created_at", "updated_at", "deleted_at", "email", "name"}, m.FieldNames())

	id, _ := m.Field("id")
	assert.True(t, id.PrimaryKey)
	assert.Equal(t, schema.Integer, id.Kind)

	created, _ := m.Field("created_at")
	assert.True(t, created.Params.AutoOnCreate)
	assert.False(t, created.Params.AutoOnUpdate)

	updated, _ := m.Field("updated_at")
	assert.True(t, updated.Params.AutoOnCreate, "GORM fills UpdatedAt on insert")
	assert.True(t, updated.Params.AutoOnUpdate)

	deleted, _ := m.Field("deleted_at")
	assert.Equal(t, schema.DateTime, deleted.Kind)
	assert.True(t, deleted.Nullable)
	assert.False(t, deleted.Params.IsAuto())

	email, _ := m.Field("email")
	assert.True(t, email.Unique)

	name, _ := m.Field("name")
	assert.True(t, name.Nullable)
	assert.Equal(t, schema.String, name.Kind)
}

func TestToSchema_AutoTimestamps(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		wantCreate bool
		wantUpdate bool
	}{
		{"autoCreateTime", "At time.Time `gorm:\"autoCreateTime\"`", true, false},
		{"autoUpdateTime implies create", "At time.Time `gorm:\"autoUpdateTime\"`", true, true},
		{"both tags", "At time.Time `gorm:\"autoCreateTime;autoUpdateTime\"`", true, true},
		{"CreatedAt convention", "CreatedAt time.Time", true, false},
		{"UpdatedAt convention", "UpdatedAt time.Time", true, true},
		{"convention disabled", "UpdatedAt time.Time `gorm:\"autoUpdateTime:false\"`", false, false},
		{"current timestamp default", "At time.Time `gorm:\"default:CURRENT_TIMESTAMP\"`", true, false},
		{"plain time", "At time.Time", false, false},
		{"date column", "Day time.Time `gorm:\"type:date;autoUpdateTime\"`", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "package m\nimport \"time\"\ntype T struct {\nID int `gorm:\"primaryKey\"`\n" + tt.field + "\n}\n"

			models := extract(t, New(), src)
			require.Len(t, models, 1)

			f := models[0].Fields[1]
			assert.Equal(t, tt.wantCreate, f.Params.AutoOnCreate, "auto_on_create")
			assert.Equal(t, tt.wantUpdate, f.Params.AutoOnUpdate, "auto_on_update")
			assert.Nil(t, f.Default)
		})
	}
}

func TestToSchema_TypeMapping(t *testing.T) {
	models := extract(t, New(), `package m

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

type T struct {
	ID     uint64 `+"`gorm:\"primaryKey\"`"+`
	A      int8
	B      sql.NullString
	C      *bool
	D      float32
	E      float64 `+"`gorm:\"type:numeric(12,4)\"`"+`
	F      decimal.Decimal
	G      sql.NullTime
	H      time.Time `+"`gorm:\"type:DATE\"`"+`
	I      []byte  `+"`gorm:\"type:varbinary(16)\"`"+`
	J      Status  `+"`gorm:\"type:varchar(20)\"`"+`
	K      sql.Null[int32]
	hidden string
	Skip   string `+"`gorm:\"-\"`"+`
}
`)
	require.Len(t, models, 1)

	m := models[0]
	assert.Equal(t, []string{"id", "a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}, m.FieldNames())

	expected := []schema.Kind{
		schema.Integer, schema.Integer, schema.String, schema.Boolean, schema.Float, schema.Decimal,
		schema.Decimal, schema.DateTime, schema.Date, schema.Bytes, schema.String, schema.Integer,
	}

	for i, k := range expected {
		assert.Equal(t, k, m.Fields[i].Kind, m.Fields[i].Name)
	}

	e, _ := m.Field("e")
	assert.Equal(t, 12, schema.IntValue(e.Params.Precision))
	assert.Equal(t, 4, schema.IntValue(e.Params.Scale))

	i, _ := m.Field("i")
	assert.Equal(t, 16, schema.IntValue(i.Params.Length))

	j, _ := m.Field("j")
	assert.Equal(t, 20, schema.IntValue(j.Params.Length))
}

func TestToSchema_UnsupportedType(t *testing.T) {
	tests := map[string]string{
		"map":   "Attrs map[string]string",
		"uuid":  "Ref uuid.UUID",
		"json":  "Raw json.RawMessage",
		"array": "Bits [4]byte",
	}

	for name, field := range tests {
		t.Run(name, func(t *testing.T) {
			src := "package m\nimport (\n\"encoding/json\"\n\"github.com/google/uuid\"\n)\nvar _ json.RawMessage\nvar _ uuid.UUID\ntype T struct {\nID int `gorm:\"primaryKey\"`\n" + field + "\n}\n"

			_, err := extractErr(New(), src)
			require.ErrorIs(t, err, schema.ErrUnsupportedType)

			var fe *schema.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "ts", fe.Model)
		})
	}
}

func TestToSchema_UnixTimeAutoTimestamp(t *testing.T) {
	_, err := extractErr(New(), "package m\ntype T struct {\nID int `gorm:\"primaryKey\"`\nCreatedAt int64\n}\n")
	require.ErrorIs(t, err, schema.ErrUnsupportedType)
}

func TestToSchema_Defaults(t *testing.T) {
	models := extract(t, New(), `package m

import "time"

type T struct {
	ID   int       `+"`gorm:\"primaryKey\"`"+`
	A    int       `+"`gorm:\"default:-3\"`"+`
	B    string    `+"`gorm:\"default:'it''s'\"`"+`
	C    string    `+"`gorm:\"default:plain\"`"+`
	D    float64   `+"`gorm:\"default:2.5\"`"+`
	E    float64   `+"`gorm:\"type:decimal(10,2);default:10.25\"`"+`
	F    time.Time `+"`gorm:\"type:date;default:'2020-01-02'\"`"+`
	G    time.Time `+"`gorm:\"default:'2020-01-02 03:04:05'\"`"+`
	H    *string   `+"`gorm:\"default:null\"`"+`
}
`)
	m := models[0]

	want := map[string]any{
		"a": int64(-3),
		"b": "it''s",
		"c": "plain",
		"d": 2.5,
		"e": "10.25",
		"f": time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		"g": time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
		"h": nil,
	}

	for name, v := range want {
		f, ok := m.Field(name)
		require.True(t, ok, name)
		assert.Equal(t, v, f.Default, name)
	}
}

func TestToSchema_InvalidDefault(t *testing.T) {
	_, err := extractErr(New(), "package m\ntype T struct {\nID int `gorm:\"primaryKey\"`\nN int `gorm:\"default:abc\"`\n}\n")
	require.ErrorIs(t, err, schema.ErrInvalidDefault)
}

func TestToSchema_UniqueIndexes(t *testing.T) {
	models := extract(t, New(), `package m

type T struct {
	ID    int    `+"`gorm:\"primaryKey\"`"+`
	A     string `+"`gorm:\"uniqueIndex:idx_ab,priority:2\"`"+`
	B     string `+"`gorm:\"uniqueIndex:idx_ab,priority:1;index:idx_bc,unique\"`"+`
	C     string `+"`gorm:\"index:idx_bc,unique;index:idx_plain\"`"+`
	D     string `+"`gorm:\"uniqueIndex:idx_solo\"`"+`
	E     string `+"`gorm:\"index:,unique\"`"+`
}
`)
	m := models[0]

	assert.Equal(t, [][]string{{"b", "a"}, {"b", "c"}}, m.UniqueTogether)

	for name, unique := range map[string]bool{"a": false, "b": false, "c": false, "d": true, "e": true} {
		f, _ := m.Field(name)
		assert.Equal(t, unique, f.Unique, name)
	}
}

func TestListModels_Relations(t *testing.T) {
	ns, err := source.ParseSource("m.go", []byte(`package m

type Company struct {
	ID        int `+"`gorm:\"primaryKey\"`"+`
	Code      string
	Employees []Employee
}

type Employee struct {
	ID        int `+"`gorm:\"primaryKey\"`"+`
	CompanyID int
	Card      *Card
	Manager   *Company `+"`gorm:\"foreignKey:ManagerCode;references:Code\"`"+`
	ManagerCode string
}

type Card struct {
	ID         int `+"`gorm:\"primaryKey\"`"+`
	EmployeeID int
}
`))
	require.NoError(t, err)

	a := New()

	models, err := a.ListModels(ns)
	require.NoError(t, err)
	require.Len(t, models, 3)

	company := modelByName(t, models, "Company")
	assert.Equal(t, HasMany, company.Field("Employees").Relation.Kind)

	employee := modelByName(t, models, "Employee")
	assert.Equal(t, "Company.id", employee.Field("CompanyID").ForeignKey)
	assert.Equal(t, "Company.code", employee.Field("ManagerCode").ForeignKey)
	assert.Equal(t, BelongsTo, employee.Field("Manager").Relation.Kind)
	assert.Equal(t, HasOne, employee.Field("Card").Relation.Kind)

	card := modelByName(t, models, "Card")
	assert.Equal(t, "Employee.id", card.Field("EmployeeID").ForeignKey)

	fields, err := a.ExtractFields(employee)
	require.NoError(t, err)

	var names []string
	for _, f := range fields {
		names = append(names, f.Name())
	}

	assert.Equal(t, []string{"ID", "CompanyID", "ManagerCode"}, names)
}

func TestListModels_UnresolvableRelation(t *testing.T) {
	tests := map[string]string{
		"missing foreign key": "package m\ntype A struct {\nID int `gorm:\"primaryKey\"`\nB B\n}\ntype B struct {\nID int `gorm:\"primaryKey\"`\n}\n",
		"not a model":         "package m\ntype A struct {\nID int `gorm:\"primaryKey\"`\nAddr Address\n}\ntype Address struct{ Street string }\n",
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := extractErr(New(), src)
			require.ErrorIs(t, err, schema.ErrMalformedForeignKey)
		})
	}
}

func TestListModels_Embedded(t *testing.T) {
	models := extract(t, New(), `package m

type Audit struct {
	By string
}

type T struct {
	ID     int   `+"`gorm:\"primaryKey\"`"+`
	Audit
	Author Audit `+"`gorm:\"embedded;embeddedPrefix:author_\"`"+`
}
`)
	assert.Equal(t, []string{"id", "by", "author_by"}, models[0].FieldNames())
}

func TestListModels_TableNameMustBeLiteral(t *testing.T) {
	_, err := extractErr(New(), "package m\ntype T struct{ ID int }\nfunc (T) TableName() string { return prefix + \"t\" }\n")
	require.ErrorIs(t, err, schema.ErrInvalidModel)
}

package entadapter

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ormconv/internal/schema"
	"ormconv/internal/schema/schematest"
	"ormconv/internal/source"
)

func TestToSchema_NativeFixture(t *testing.T) {
	src, err := os.ReadFile("testdata/schema.go")
	require.NoError(t, err)

	models := extract(t, New(), string(src))
	require.Len(t, models, 2)

	schematest.AssertEquivalent(t, schematest.UserModel(t), models[0])
	schematest.AssertEquivalent(t, schematest.PaymentModel(t), models[1])
}

func TestRecognizes(t *testing.T) {
	ns, err := source.ParseSource("schema.go", []byte(header+`
type Car struct {
	ent.Schema
}

type EdgeOnly struct{ ent.Schema }

func (EdgeOnly) Edges() []ent.Edge { return nil }

type AuditMixin struct{ mixin.Schema }

type Plain struct{ Name string }
`))
	require.NoError(t, err)

	a := New()

	var recognized []string

	for _, sym := range ns.Symbols {
		if a.Recognizes(sym) {
			recognized = append(recognized, sym.Name)
		}
	}

	assert.Equal(t, []string{"Car", "EdgeOnly"}, recognized)
}

func TestListModels_ImplicitID(t *testing.T) {
	src := header + `
type UserAccount struct{ ent.Schema }

func (UserAccount) Fields() []ent.Field {
	return []ent.Field{
		field.String("email").Unique(),
	}
}
`
	natives := list(t, New(), src)
	require.Len(t, natives, 1)

	s := natives[0].(*Schema)
	assert.True(t, s.ImplicitID)
	assert.False(t, s.TableAnnotation)
	assert.Equal(t, "user_accounts", s.Table)

	m := extract(t, New(), src)[0]
	assert.Equal(t, []string{"id", "email"}, m.FieldNames())
	assert.Equal(t, schema.DefaultModelDoc, m.Doc)

	id, _ := m.Field("id")
	assert.Equal(t, schema.Integer, id.Kind)
	assert.True(t, id.PrimaryKey)
	assert.False(t, id.Nullable)

	email, _ := m.Field("email")
	assert.True(t, email.Unique)
	assert.False(t, email.Nullable, "ent columns are NOT NULL unless Optional")
}

func TestListModels_Mixins(t *testing.T) {
	models := extract(t, New(), header+`
type Audit struct{ mixin.Schema }

func (Audit) Fields() []ent.Field {
	return []ent.Field{
		field.String("created_by").Optional(),
	}
}

type Post struct{ ent.Schema }

func (Post) Mixin() []ent.Mixin {
	return []ent.Mixin{
		mixin.Time{},
		Audit{},
	}
}

func (Post) Fields() []ent.Field {
	return []ent.Field{
		field.Text("body"),
	}
}
`)
	require.Len(t, models, 1)

	m := models[0]
	assert.Equal(t, []string{"id", "create_time", "update_time", "created_by", "body"}, m.FieldNames())

	created, _ := m.Field("create_time")
	assert.True(t, created.Params.AutoOnCreate)
	assert.False(t, created.Params.AutoOnUpdate)

	updated, _ := m.Field("update_time")
	assert.True(t, updated.Params.AutoOnCreate)
	assert.True(t, updated.Params.AutoOnUpdate)
}

func TestToSchema_IndependentAutoFlags(t *testing.T) {
	models := extract(t, New(), header+`
type Event struct{ ent.Schema }

func (Event) Fields() []ent.Field {
	return []ent.Field{
		field.Time("created").Default(time.Now),
		field.Time("touched").UpdateDefault(time.Now),
		field.Time("both").Default(time.Now).UpdateDefault(time.Now),
		field.Time("fn").DefaultFunc(time.Now),
		field.Time("plain"),
	}
}
`)
	m := models[0]

	tests := []struct {
		field              string
		wantCreate, wantUp bool
	}{
		{"created", true, false},
		{"touched", false, true},
		{"both", true, true},
		{"fn", true, false},
		{"plain", false, false},
	}

	for _, tt := range tests {
		f, ok := m.Field(tt.field)
		require.True(t, ok, tt.field)
		assert.Equal(t, tt.wantCreate, f.Params.AutoOnCreate, "%s auto_on_create", tt.field)
		assert.Equal(t, tt.wantUp, f.Params.AutoOnUpdate, "%s auto_on_update", tt.field)
	}
}

func TestToSchema_TypeMapping(t *testing.T) {
	models := extract(t, New(), header+`
type T struct{ ent.Schema }

func (T) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("id"),
		field.Uint8("small"),
		field.Text("body"),
		field.String("code").SchemaType(map[string]string{dialect.MySQL: "varchar(12)"}),
		field.Bool("flag"),
		field.Float32("ratio"),
		field.Float("price").SchemaType(map[string]string{dialect.Postgres: "numeric(10,2)"}),
		field.Time("day").SchemaType(map[string]string{"sqlite3": "date"}),
		field.Time("at"),
		field.Bytes("blob"),
	}
}
`)
	m := models[0]

	want := map[string]schema.Kind{
		"id": schema.Integer, "small": schema.Integer, "body": schema.String, "code": schema.String,
		"flag": schema.Boolean, "ratio": schema.Float, "price": schema.Decimal, "day": schema.Date,
		"at": schema.DateTime, "blob": schema.Bytes,
	}

	for name, kind := range want {
		f, ok := m.Field(name)
		require.True(t, ok, name)
		assert.Equal(t, kind, f.Kind, name)
	}

	code, _ := m.Field("code")
	assert.Equal(t, 12, schema.IntValue(code.Params.Length))

	price, _ := m.Field("price")
	assert.Equal(t, 10, schema.IntValue(price.Params.Precision))
	assert.Equal(t, 2, schema.IntValue(price.Params.Scale))
}

func TestToSchema_Defaults(t *testing.T) {
	models := extract(t, New(), header+`
type T struct{ ent.Schema }

func (T) Fields() []ent.Field {
	return []ent.Field{
		field.Int("n").Default(-3),
		field.String("s").Default("a \"b\""),
		field.String("raw").Default(`+"`x`"+`),
		field.Bool("b").Default(false),
		field.Float("f").Default(2.5),
		field.Float("d").SchemaType(map[string]string{dialect.MySQL: "decimal(6,2)"}).Default(10.25),
		field.Bytes("bs").Default([]byte("ab")),
	}
}
`)
	m := models[0]

	want := map[string]any{
		"n": int64(-3), "s": `a "b"`, "raw": "x", "b": false, "f": 2.5, "d": "10.25", "bs": []byte("ab"),
	}

	for name, v := range want {
		f, ok := m.Field(name)
		require.True(t, ok, name)
		assert.Equal(t, v, f.Default, name)
	}
}

func TestListModels_ForeignKeys(t *testing.T) {
	models := extract(t, New(), header+`
type Account struct{ ent.Schema }

func (Account) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").StorageKey("account_id"),
		field.String("name"),
	}
}

func (Account) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("cars", Car.Type),
	}
}

type Car struct{ ent.Schema }

func (Car) Fields() []ent.Field {
	return []ent.Field{
		field.Int("owner_id").Optional(),
		field.String("plate"),
	}
}

func (Car) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("owner", Account.Type).Ref("cars").Field("owner_id").Unique(),
		edge.To("parts", Part.Type).Comment("owned parts"),
	}
}

func (Car) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("plate").Edges("owner").Unique(),
	}
}
`)
	require.Len(t, models, 2)

	id, _ := models[0].Field("account_id")
	assert.True(t, id.PrimaryKey)

	car := models[1]

	owner, _ := car.Field("owner_id")
	assert.Equal(t, "Account.account_id", owner.ForeignKey)
	assert.True(t, owner.Nullable)

	assert.Equal(t, [][]string{{"plate", "owner_id"}}, car.UniqueTogether)
}

func TestListModels_AliasedImports(t *testing.T) {
	models := extract(t, New(), `package schema

import (
	"entgo.io/ent"
	entfield "entgo.io/ent/schema/field"
)

type Tag struct{ ent.Schema }

func (Tag) Fields() []ent.Field {
	return []ent.Field{entfield.String("label").MaxLen(8)}
}
`)
	require.Len(t, models, 1)

	label, ok := models[0].Field("label")
	require.True(t, ok)
	assert.Equal(t, 8, schema.IntValue(label.Params.Length))
}

func TestListModels_AliasedEntPackage(t *testing.T) {
	models := extract(t, New(), `package schema

import (
	entgo "entgo.io/ent"
	"entgo.io/ent/schema/field"
)

type Tag struct{ entgo.Schema }

func (Tag) Fields() []entgo.Field {
	return []entgo.Field{field.String("label")}
}

// Unrelated embeds a Schema type that is not ent's.
type Unrelated struct{ ent.Schema }
`)
	require.Len(t, models, 1)
	assert.Equal(t, "tags", models[0].Table)
	assert.Equal(t, []string{"id", "label"}, models[0].FieldNames())
}

func TestListModels_SkipsValidators(t *testing.T) {
	models := extract(t, New(), header+`
type T struct{ ent.Schema }

func (T) Fields() []ent.Field {
	return []ent.Field{
		field.String("name").NotEmpty().MinLen(2).Match(nil).Immutable().Sensitive(),
		field.Int("age").Positive().Range(0, 150),
	}
}
`)
	assert.Equal(t, []string{"id", "name", "age"}, models[0].FieldNames())
}

func TestListModels_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			"unsupported builder",
			`type T struct{ ent.Schema }
func (T) Fields() []ent.Field { return []ent.Field{field.JSON("meta", map[string]any{})} }`,
			schema.ErrUnsupportedType,
		},
		{
			"enum values",
			`type T struct{ ent.Schema }
func (T) Fields() []ent.Field { return []ent.Field{field.Enum("status").Values("a", "b")} }`,
			schema.ErrUnsupportedType,
		},
		{
			"unknown option",
			`type T struct{ ent.Schema }
func (T) Fields() []ent.Field { return []ent.Field{field.String("x").Shiny()} }`,
			schema.ErrUnsupportedType,
		},
		{
			"computed field list",
			`type T struct{ ent.Schema }
func (T) Fields() []ent.Field { return fields() }`,
			schema.ErrUnsupportedType,
		},
		{
			"default func",
			`type T struct{ ent.Schema }
func (T) Fields() []ent.Field { return []ent.Field{field.String("x").DefaultFunc(newName)} }`,
			schema.ErrUnsupportedDefault,
		},
		{
			"literal time default",
			`type T struct{ ent.Schema }
func (T) Fields() []ent.Field { return []ent.Field{field.Time("x").Default(epoch)} }`,
			schema.ErrUnsupportedDefault,
		},
		{
			"edge column without field",
			`type A struct{ ent.Schema }
type B struct{ ent.Schema }
func (B) Edges() []ent.Edge { return []ent.Edge{edge.From("a", A.Type).Ref("bs").Unique()} }`,
			schema.ErrMalformedForeignKey,
		},
		{
			"edge binds unknown field",
			`type A struct{ ent.Schema }
type B struct{ ent.Schema }
func (B) Edges() []ent.Edge { return []ent.Edge{edge.From("a", A.Type).Ref("bs").Field("a_id").Unique()} }`,
			schema.ErrMalformedForeignKey,
		},
		{
			"unknown mixin",
			`type T struct{ ent.Schema }
func (T) Mixin() []ent.Mixin { return []ent.Mixin{Missing{}} }`,
			schema.ErrUnsupportedType,
		},
		{
			"duplicate field",
			`type T struct{ ent.Schema }
func (T) Fields() []ent.Field { return []ent.Field{field.Int("x"), field.String("x")} }`,
			schema.ErrInvalidModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractErr(New(), header+tt.body)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestListModels_SkipsNonOwningEdges(t *testing.T) {
	models := extract(t, New(), header+`
type Group struct{ ent.Schema }

func (Group) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("users", User.Type),
	}
}

type User struct{ ent.Schema }

func (User) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("groups", Group.Type).Ref("users"),
	}
}
`)
	require.Len(t, models, 2)
	assert.Equal(t, []string{"id"}, models[1].FieldNames())
}

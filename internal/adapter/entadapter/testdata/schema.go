package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Some User Model
type User struct {
	ent.Schema
}

func (User) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "user"},
	}
}

func (User) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").Comment("UserId"),
		field.Int("level").Optional().Nillable().Comment("User level"),
		field.String("nickname").MaxLen(32).Optional().Unique().NotEmpty().Comment("Nickname"),
		field.Bool("is_active").Optional().Default(true),
		field.Float("coeff").
			SchemaType(map[string]string{dialect.MySQL: "float(8)"}).
			Optional().
			Default(1.1),
		field.Time("reg_time").Optional().Nillable().Default(time.Now).Immutable(),
		field.Time("birthday").
			SchemaType(map[string]string{dialect.Postgres: "date", dialect.MySQL: "date"}).
			Optional().
			Default(time.Now).
			UpdateDefault(time.Now),
		field.Bytes("signature").MaxLen(4).Default([]byte("1010")),
		field.Float("balance").
			SchemaType(map[string]string{
				dialect.MySQL:    "decimal(2,10)",
				dialect.Postgres: "numeric(2,10)",
			}).
			Optional(),
	}
}

func (User) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("payments", Payment.Type),
	}
}

func (User) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("level", "coeff").Unique(),
		index.Fields("reg_time"),
	}
}

// Some Payment
type Payment struct {
	ent.Schema
}

func (Payment) Annotations() []schema.Annotation {
	return []schema.Annotation{
		&entsql.Annotation{Table: "payment"},
	}
}

func (Payment) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").Comment("UserId"),
		field.Float("payment").SchemaType(map[string]string{"mysql": "decimal"}).Optional(),
		field.Int("user_id").Comment("UserId"),
	}
}

func (Payment) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("user", User.Type).
			Ref("payments").
			Field("user_id").
			Unique().
			Required(),
	}
}

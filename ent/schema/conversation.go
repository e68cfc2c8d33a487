// Package schema declares the ent schema of the tables in internal/store.
// The store builds its statements with ent's SQL builder; these types are
// the column contract its migration is tested against.
package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Conversation is a finished practice session saved by the tutoring service.
type Conversation struct {
	ent.Schema
}

func (Conversation) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("Session id issued by start-session"),
		field.Time("created").
			Immutable().
			Comment("UTC time the session was started"),
		field.String("language").
			Default("").
			Comment("Language code, e.g. es"),
		field.String("level").
			Default("").
			Comment("CEFR level label"),
		field.String("focus").
			Default(""),
		field.String("context").
			Default("").
			Comment("Role-play setting"),
		field.Text("conversation").
			Comment("JSON array of {user, assistant} turns"),
		field.Text("feedback").
			Comment("JSON feedback report"),
	}
}

func (Conversation) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created"),
	}
}

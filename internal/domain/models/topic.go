// internal/domain/models/topic.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Topic is a discussion thread inside a group. A closed topic stays
// visible but accepts no new comments and no edits.
type Topic struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`
	Title    string             `bson:"title" json:"title"`
	Body     string             `bson:"body" json:"body"`
	IsClosed bool               `bson:"is_closed" json:"is_closed"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

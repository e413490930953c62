// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a reply on a topic. GroupID is denormalized from the topic
// so roster and visibility checks don't need a join.
type Comment struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	TopicID  primitive.ObjectID `bson:"topic_id" json:"topic_id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`
	Body     string             `bson:"body" json:"body"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// internal/domain/models/groupmembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupMembership is the authoritative join between users and groups.
// Exactly one document per (group_id, user_id); status is a scalar
// ("requested" | "member" | "moderator" | "banned"), so a pair can
// never hold two standings at once. Absence of a document means the
// user has no standing in the group at all.
//
// Version increments on every status change and backs the store's
// compare-and-set: a transition only commits if the status it read is
// still the one on disk.
type GroupMembership struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status  string             `bson:"status" json:"status"`
	Version int64              `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

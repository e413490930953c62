// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a community space owned by exactly one user.
//
// NOTE:
//   - Member/moderator/ban lists are not embedded on Group. All standing
//     is stored in the group_memberships collection.
//   - OwnerID never changes after creation and the owner never has a
//     membership document.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	IsPrivate   bool               `bson:"is_private" json:"is_private"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

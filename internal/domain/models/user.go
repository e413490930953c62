// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account holder. Group standing is not embedded here; it
// lives in the group_memberships collection, one document per
// (group_id, user_id).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`

	// PermittedToAddInGroups gates the admin add-member path only; it has
	// no effect on the user's own join requests.
	PermittedToAddInGroups bool `bson:"permitted_to_add_in_groups" json:"permitted_to_add_in_groups"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/commonshub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the signed-in user's name, Mongo ObjectID, and a found
// flag. If no user is present in context or the user ID is malformed, it
// returns "", NilObjectID, false. Callers can trust that ok=true means a
// valid, authenticated user with a valid ObjectID.
//
// There are no site-wide roles here: standing is always per group and is
// resolved by the access core against the membership store.
func UserCtx(r *http.Request) (name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "", primitive.NilObjectID, false
	}
	return user.Name, userID, true
}

// UserID returns just the current user's ObjectID, NilObjectID when
// signed out. Anonymous reads resolve to the none role downstream, so
// most read handlers use this instead of UserCtx.
func UserID(r *http.Request) primitive.ObjectID {
	_, id, _ := UserCtx(r)
	return id
}

// IsSignedIn reports whether the request carries a valid user.
func IsSignedIn(r *http.Request) bool {
	_, _, ok := UserCtx(r)
	return ok
}

// Package gates provides authorization gate functions for HTTP handlers.
//
// Authorization happens in two tiers:
//
//  1. Route-Level Middleware (auth.RequireSignedIn)
//     Applied in routes.go files for routes that need a signed-in user
//     at all. Anonymous-readable routes skip it.
//
//  2. The Access Core (internal/app/access/mediator)
//     Every group-scoped action goes through the mediator, which
//     resolves the actor's per-group role and consults the policy.
//     Handlers never compare roles themselves.
//
// The gates here cover only tier 1 concerns inside a handler: pulling
// the authenticated user out of context and writing the JSON 401 when
// absent.
package gates

import (
	"net/http"

	"github.com/dalemusser/commonshub/internal/app/system/authz"
	"github.com/dalemusser/commonshub/internal/app/system/webapi"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// RequireUser ensures a user is authenticated. If not, it writes a JSON
// 401 and returns OK=false.
func RequireUser(w http.ResponseWriter, r *http.Request) Result {
	name, uid, ok := authz.UserCtx(r)
	if !ok {
		webapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return Result{OK: false}
	}
	return Result{Name: name, UserID: uid, OK: true}
}

// OptionalUser returns the user if present without writing anything.
// Read handlers use this so anonymous viewers resolve to the none role.
func OptionalUser(r *http.Request) Result {
	name, uid, ok := authz.UserCtx(r)
	return Result{Name: name, UserID: uid, OK: ok}
}

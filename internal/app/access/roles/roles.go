// Package roles resolves a (user, group) pair to the user's current Role
// against the authoritative membership store.
//
// Resolution is a pure read and must reflect the state machine's status at
// the instant of the read: callers never cache a resolved role across a
// mutating call without re-resolving.
package roles

import (
	"context"

	"github.com/dalemusser/commonshub/internal/app/access"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resolve computes the user's current role in the group. The group's owner
// resolves to RoleOwner regardless of any membership record; everyone else
// resolves from their membership status, with RoleNone for the absence of a
// record. Returns access.ErrNotFound if the group does not exist.
func Resolve(ctx context.Context, store access.Store, userID, groupID primitive.ObjectID) (access.Role, error) {
	group, err := store.Group(ctx, groupID)
	if err != nil {
		return access.RoleNone, err
	}
	return ResolveInGroup(ctx, store, userID, group)
}

// ResolveInGroup is Resolve for callers that already hold the GroupInfo,
// saving the group lookup. The mediator uses this to resolve the actor and
// target against one consistent group read.
func ResolveInGroup(ctx context.Context, store access.Store, userID primitive.ObjectID, group access.GroupInfo) (access.Role, error) {
	if userID == primitive.NilObjectID {
		return access.RoleNone, nil
	}
	if userID == group.OwnerID {
		return access.RoleOwner, nil
	}
	status, err := store.Membership(ctx, userID, group.ID)
	if err != nil {
		return access.RoleNone, err
	}
	return access.FromStatus(status), nil
}

// Package transitions is the membership state machine: the only code that
// moves a (user, group) pair between membership statuses.
//
// States are None, Requested, Member, Moderator, and Banned. Ownership is
// not a state of this machine; it is an immutable attribute of the group
// and the owner never appears in these transitions at all (the policy layer
// rejects every action that would target the owner before the machine is
// reached).
//
// Every transition commits through one compare-and-set against the store:
// the precondition (the expected from-state) and the write are a single
// atomic unit, so two moderators racing to accept the same request, or a
// promote racing a ban, resolve to exactly one winner. The loser gets
// access.ErrConflict and may retry the whole operation. A transition whose
// from-state is simply wrong (unban on someone who is not banned) fails
// with access.ErrInvalidTransition instead.
package transitions

import (
	"context"

	"github.com/dalemusser/commonshub/internal/app/access"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Machine applies membership transitions against an access.Store.
type Machine struct {
	store access.Store
}

// New returns a Machine committing through the given store.
func New(store access.Store) *Machine {
	return &Machine{store: store}
}

// RequestJoin is the self-service entry transition. On a public group it
// moves None directly to Member; on a private group it moves None to
// Requested. Returns the status the user ended up in.
func (m *Machine) RequestJoin(ctx context.Context, userID primitive.ObjectID, group access.GroupInfo) (access.Status, error) {
	next := access.StatusMember
	if group.IsPrivate {
		next = access.StatusRequested
	}
	if err := m.step(ctx, userID, group.ID, from(access.StatusNone), next); err != nil {
		return access.StatusNone, err
	}
	return next, nil
}

// AddMember is the admin path: an owner or moderator placing a user
// directly into Member without a request. The target must currently be
// None; a banned or already-joined target is an invalid transition.
func (m *Machine) AddMember(ctx context.Context, userID, groupID primitive.ObjectID) error {
	return m.step(ctx, userID, groupID, from(access.StatusNone), access.StatusMember)
}

// CancelRequest clears a pending join request (requester withdrawal or a
// moderator/owner denying it). Requested → None.
func (m *Machine) CancelRequest(ctx context.Context, userID, groupID primitive.ObjectID) error {
	return m.step(ctx, userID, groupID, from(access.StatusRequested), access.StatusNone)
}

// AcceptRequest turns a pending request into membership. Requested →
// Member. Two concurrent accepts of the same request leave exactly one
// winner; the other caller gets ErrConflict.
func (m *Machine) AcceptRequest(ctx context.Context, userID, groupID primitive.ObjectID) error {
	return m.step(ctx, userID, groupID, from(access.StatusRequested), access.StatusMember)
}

// Promote elevates a member to moderator. Member → Moderator.
func (m *Machine) Promote(ctx context.Context, userID, groupID primitive.ObjectID) error {
	return m.step(ctx, userID, groupID, from(access.StatusMember), access.StatusModerator)
}

// Demote returns a moderator to plain membership. Moderator → Member,
// never to None.
func (m *Machine) Demote(ctx context.Context, userID, groupID primitive.ObjectID) error {
	return m.step(ctx, userID, groupID, from(access.StatusModerator), access.StatusMember)
}

// Remove deletes a membership (leave or removal by owner/moderator).
// Member or Moderator → None.
func (m *Machine) Remove(ctx context.Context, userID, groupID primitive.ObjectID) error {
	return m.step(ctx, userID, groupID, from(access.StatusMember, access.StatusModerator), access.StatusNone)
}

// Ban bars a current member or moderator from the group. The swap to
// Banned atomically replaces the membership record, so the implicit
// member-removal and the ban can never be observed separately and the pair
// is never simultaneously member and banned.
func (m *Machine) Ban(ctx context.Context, userID, groupID primitive.ObjectID) error {
	return m.step(ctx, userID, groupID, from(access.StatusMember, access.StatusModerator), access.StatusBanned)
}

// Unban lifts a ban. Banned → None; the user has to join or request again.
func (m *Machine) Unban(ctx context.Context, userID, groupID primitive.ObjectID) error {
	return m.step(ctx, userID, groupID, from(access.StatusBanned), access.StatusNone)
}

// step performs one transition: read the current status, check it is one of
// the legal from-states, then compare-and-set from that exact status. The
// read is only for classification; the CAS re-verifies the from-state
// atomically at commit time, so a concurrent change between read and write
// surfaces as ErrConflict rather than a lost update.
func (m *Machine) step(ctx context.Context, userID, groupID primitive.ObjectID, allowed map[access.Status]bool, next access.Status) error {
	current, err := m.store.Membership(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !allowed[current] {
		return access.ErrInvalidTransition
	}
	if current == next {
		return access.ErrInvalidTransition
	}
	return m.store.CompareAndSwapMembership(ctx, userID, groupID, current, next)
}

func from(statuses ...access.Status) map[access.Status]bool {
	set := make(map[access.Status]bool, len(statuses))
	for _, s := range statuses {
		set[s] = true
	}
	return set
}

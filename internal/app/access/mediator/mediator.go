// Package mediator is the single call path between HTTP handlers and the
// access-control core. It resolves roles, consults the policy, and — only
// on an allow — commits the matching membership transition or computes the
// caller's visibility scope. Denials come back as structured
// access.PermissionError values with no side effects.
package mediator

import (
	"context"

	"github.com/dalemusser/commonshub/internal/app/access"
	"github.com/dalemusser/commonshub/internal/app/access/policy"
	"github.com/dalemusser/commonshub/internal/app/access/roles"
	"github.com/dalemusser/commonshub/internal/app/access/transitions"
	"github.com/dalemusser/commonshub/internal/app/access/visibility"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request names the actor, the group, the action, and whichever target the
// action applies to. Unset ObjectIDs are simply not part of the action;
// an unset ActorID is an anonymous viewer (reads on public groups only).
type Request struct {
	ActorID   primitive.ObjectID
	GroupID   primitive.ObjectID
	Action    access.Action
	TargetID  primitive.ObjectID // subject user of a membership action
	TopicID   primitive.ObjectID // topic for content actions
	CommentID primitive.ObjectID // comment for comment actions
}

// Result is the outcome of an allowed request. Scope is set for reads and
// content actions; Status is the committed membership status for membership
// mutations. The loaded group/topic/comment snapshots are included so
// handlers don't re-read what the mediator already fetched.
type Result struct {
	ActorRole access.Role
	Scope     visibility.Scope
	Status    access.Status

	Group   access.GroupInfo
	Topic   access.TopicInfo
	Comment access.CommentInfo
}

// Mediator orchestrates resolve → permit → commit.
type Mediator struct {
	store   access.Store
	machine *transitions.Machine
}

// New returns a Mediator over the given persistence collaborator.
func New(store access.Store) *Mediator {
	return &Mediator{store: store, machine: transitions.New(store)}
}

// Execute runs one guarded action end to end. On deny it returns a
// *access.PermissionError and performs no writes; on allow it either
// commits the membership transition (for membership mutations) or fills in
// the visibility scope (for reads and content actions). Storage-level
// failures surface unchanged: access.ErrNotFound, access.ErrInvalidTransition,
// access.ErrConflict.
func (m *Mediator) Execute(ctx context.Context, req Request) (Result, error) {
	group, err := m.store.Group(ctx, req.GroupID)
	if err != nil {
		return Result{}, err
	}

	actorRole, err := roles.ResolveInGroup(ctx, m.store, req.ActorID, group)
	if err != nil {
		return Result{}, err
	}

	res := Result{ActorRole: actorRole, Group: group}

	in := policy.Input{
		Actor:          actorRole,
		GroupIsPrivate: group.IsPrivate,
	}

	if err := m.loadContent(ctx, req, group, &res, &in); err != nil {
		return Result{}, err
	}
	if err := m.loadTarget(ctx, req, group, &in); err != nil {
		return Result{}, err
	}

	if d := policy.Permit(req.Action, in); !d.Allowed {
		return Result{}, access.Denied(req.Action, d.Reason)
	}

	if req.Action.IsMembershipMutation() {
		status, err := m.commit(ctx, req, group)
		if err != nil {
			return Result{}, err
		}
		res.Status = status
		return res, nil
	}

	res.Scope = visibility.ForGroup(group.IsPrivate, actorRole)
	return res, nil
}

// loadContent fetches the topic and/or comment the action refers to and
// fills the content facts the policy needs. A topic or comment that exists
// but hangs off a different group than the request claims is treated as
// not found rather than leaking cross-group content.
func (m *Mediator) loadContent(ctx context.Context, req Request, group access.GroupInfo, res *Result, in *policy.Input) error {
	topicID := req.TopicID

	if req.CommentID != primitive.NilObjectID {
		comment, err := m.store.Comment(ctx, req.CommentID)
		if err != nil {
			return err
		}
		res.Comment = comment
		topicID = comment.TopicID
		in.ActorIsAuthor = comment.AuthorID == req.ActorID
	}

	if topicID == primitive.NilObjectID {
		return nil
	}

	topic, err := m.store.Topic(ctx, topicID)
	if err != nil {
		return err
	}
	if topic.GroupID != group.ID {
		return access.ErrNotFound
	}
	res.Topic = topic
	in.TopicClosed = topic.IsClosed
	if req.CommentID == primitive.NilObjectID {
		in.ActorIsAuthor = topic.AuthorID == req.ActorID
	}
	return nil
}

// loadTarget resolves the target user's role for membership actions, plus
// the join-permission flag for the admin add path.
func (m *Mediator) loadTarget(ctx context.Context, req Request, group access.GroupInfo, in *policy.Input) error {
	if req.TargetID == primitive.NilObjectID {
		return nil
	}

	targetRole, err := roles.ResolveInGroup(ctx, m.store, req.TargetID, group)
	if err != nil {
		return err
	}
	in.Target = targetRole
	in.ActorIsTarget = req.TargetID == req.ActorID

	if req.Action == access.ActionAddMember {
		user, err := m.store.User(ctx, req.TargetID)
		if err != nil {
			return err
		}
		in.TargetPermitsJoin = user.PermittedToJoinGroups
	}
	return nil
}

// commit dispatches the allowed membership mutation to the state machine.
// The subject of the transition is the target user, except for the
// self-service actions (request and leave) where it is the actor.
func (m *Mediator) commit(ctx context.Context, req Request, group access.GroupInfo) (access.Status, error) {
	switch req.Action {
	case access.ActionRequestJoin:
		return m.machine.RequestJoin(ctx, req.ActorID, group)
	case access.ActionLeaveGroup:
		return access.StatusNone, m.machine.Remove(ctx, req.ActorID, group.ID)
	case access.ActionCancelJoinRequest, access.ActionDenyJoinRequest:
		return access.StatusNone, m.machine.CancelRequest(ctx, req.TargetID, group.ID)
	case access.ActionAcceptJoinRequest:
		return access.StatusMember, m.machine.AcceptRequest(ctx, req.TargetID, group.ID)
	case access.ActionAddMember:
		return access.StatusMember, m.machine.AddMember(ctx, req.TargetID, group.ID)
	case access.ActionRemoveMember:
		return access.StatusNone, m.machine.Remove(ctx, req.TargetID, group.ID)
	case access.ActionPromoteModerator:
		return access.StatusModerator, m.machine.Promote(ctx, req.TargetID, group.ID)
	case access.ActionDemoteModerator:
		return access.StatusMember, m.machine.Demote(ctx, req.TargetID, group.ID)
	case access.ActionBanMember:
		return access.StatusBanned, m.machine.Ban(ctx, req.TargetID, group.ID)
	case access.ActionUnbanMember:
		return access.StatusNone, m.machine.Unban(ctx, req.TargetID, group.ID)
	}
	return access.StatusNone, access.ErrInvalidTransition
}

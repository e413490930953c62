// Package policy is the access policy of the core: one pure decision table
// covering every guarded action on groups, topics, comments, and
// memberships.
//
// Permit never touches storage. Callers (normally the mediator) resolve the
// actor's and target's roles first and hand them in along with the few
// content facts some actions depend on. The return value is a Decision with
// a structured deny reason, so the HTTP boundary can translate denials
// without re-deriving any of the rules below.
//
// Capability rules live here; state legality (is the target actually in the
// from-state the transition needs) lives in the state machine. A request
// that passes policy can still fail with an invalid-transition or conflict
// error when it reaches storage.
package policy

import (
	"github.com/dalemusser/commonshub/internal/app/access"
)

// Input carries everything a policy decision can depend on. Fields that an
// action does not use are ignored; the zero value is "no target, public
// group, open topic".
type Input struct {
	// Actor is the resolved role of the user attempting the action.
	Actor access.Role

	// Target is the resolved role of the user being acted on, for
	// membership actions that have one.
	Target access.Role

	// ActorIsTarget is true when the actor and target are the same user.
	ActorIsTarget bool

	// GroupIsPrivate mirrors the group's privacy flag.
	GroupIsPrivate bool

	// ActorIsAuthor is true when the actor authored the topic or comment
	// being edited or deleted.
	ActorIsAuthor bool

	// TopicClosed mirrors the topic's closed flag for comment creation and
	// topic/comment edits. Closed blocks new writes, never visibility.
	TopicClosed bool

	// TargetPermitsJoin mirrors the target user's opt-in flag for being
	// added to groups by another actor.
	TargetPermitsJoin bool
}

// Permit evaluates one action against the input and returns Allow or
// Deny(reason).
func Permit(action access.Action, in Input) access.Decision {
	switch action {
	case access.ActionViewGroupContent:
		return permitView(in)

	case access.ActionCreateTopic:
		return requireMembership(in)

	case access.ActionCreateComment:
		if d := requireMembership(in); !d.Allowed {
			return d
		}
		if in.TopicClosed {
			return access.Deny(access.ReasonTopicClosed)
		}
		return access.Allow()

	case access.ActionEditTopic:
		if d := requireMembership(in); !d.Allowed {
			return d
		}
		if !in.ActorIsAuthor {
			return access.Deny(access.ReasonNotAuthor)
		}
		if in.TopicClosed {
			return access.Deny(access.ReasonTopicClosed)
		}
		return access.Allow()

	case access.ActionEditComment:
		if d := requireMembership(in); !d.Allowed {
			return d
		}
		if in.TopicClosed {
			return access.Deny(access.ReasonTopicClosed)
		}
		if !in.ActorIsAuthor {
			return access.Deny(access.ReasonNotAuthor)
		}
		return access.Allow()

	case access.ActionCloseTopic:
		// Closing (and reopening) is moderation, not authorship.
		if d := requireMembership(in); !d.Allowed {
			return d
		}
		return requirePrivileged(in)

	case access.ActionDeleteTopic, access.ActionDeleteComment:
		if d := requireMembership(in); !d.Allowed {
			return d
		}
		if !in.ActorIsAuthor && !in.Actor.IsPrivileged() {
			return access.Deny(access.ReasonNotPrivileged)
		}
		return access.Allow()

	case access.ActionRequestJoin:
		return permitRequestJoin(in)

	case access.ActionCancelJoinRequest:
		// The requester may withdraw their own request; owners and
		// moderators may clear anyone's.
		if in.ActorIsTarget || in.Actor.IsPrivileged() {
			return access.Allow()
		}
		return access.Deny(access.ReasonNotPrivileged)

	case access.ActionAcceptJoinRequest, access.ActionDenyJoinRequest,
		access.ActionViewBanRoster, access.ActionViewJoinRequests:
		return requirePrivileged(in)

	case access.ActionAddMember:
		return permitAddMember(in)

	case access.ActionRemoveMember:
		return permitRemoveMember(in)

	case access.ActionLeaveGroup:
		if in.Actor == access.RoleOwner {
			// Ownership is irrevocable tenure; the owner cannot leave.
			return access.Deny(access.ReasonTargetIsOwner)
		}
		if !in.Actor.IsMember() {
			return access.Deny(access.ReasonNotAMember)
		}
		return access.Allow()

	case access.ActionPromoteModerator:
		return permitPromote(in)

	case access.ActionDemoteModerator:
		if in.Actor != access.RoleOwner {
			return access.Deny(access.ReasonNotPrivileged)
		}
		return access.Allow()

	case access.ActionBanMember:
		return permitBan(in)

	case access.ActionUnbanMember:
		return requirePrivileged(in)

	case access.ActionUpdateGroupSettings:
		return requirePrivileged(in)

	case access.ActionDeleteGroup:
		if in.Actor != access.RoleOwner {
			return access.Deny(access.ReasonNotPrivileged)
		}
		return access.Allow()
	}

	// Unknown actions fail closed, with a reason that says so instead
	// of misreporting a privilege problem.
	return access.Deny(access.ReasonUnknownAction)
}

// permitView implements the visibility rule: public-group content is open to
// anyone, private-group content only to members (owner and moderators
// included).
func permitView(in Input) access.Decision {
	if !in.GroupIsPrivate {
		return access.Allow()
	}
	if in.Actor.IsMember() {
		return access.Allow()
	}
	return access.Deny(access.ReasonNotAMember)
}

func permitRequestJoin(in Input) access.Decision {
	switch in.Actor {
	case access.RoleBanned:
		return access.Deny(access.ReasonBanned)
	case access.RoleRequester, access.RoleMember, access.RoleModerator, access.RoleOwner:
		return access.Deny(access.ReasonAlreadyInState)
	}
	return access.Allow()
}

func permitAddMember(in Input) access.Decision {
	if !in.Actor.IsPrivileged() {
		return access.Deny(access.ReasonNotPrivileged)
	}
	if in.ActorIsTarget {
		// Joining yourself goes through request_join, not the admin path.
		return access.Deny(access.ReasonSelfTargetForbidden)
	}
	if in.Target.IsMember() {
		return access.Deny(access.ReasonAlreadyInState)
	}
	if in.Target == access.RoleBanned {
		// The ban has to be lifted before the user can be added back.
		return access.Deny(access.ReasonBanned)
	}
	if !in.TargetPermitsJoin {
		return access.Deny(access.ReasonJoinNotPermitted)
	}
	return access.Allow()
}

func permitRemoveMember(in Input) access.Decision {
	if !in.Actor.IsPrivileged() {
		return access.Deny(access.ReasonNotPrivileged)
	}
	if in.ActorIsTarget {
		// Self-removal must go through leave_group.
		return access.Deny(access.ReasonSelfTargetForbidden)
	}
	if in.Target == access.RoleOwner {
		return access.Deny(access.ReasonTargetIsOwner)
	}
	if in.Actor == access.RoleModerator && in.Target == access.RoleModerator {
		return access.Deny(access.ReasonTargetIsPeerModerator)
	}
	if !in.Target.IsMember() {
		return access.Deny(access.ReasonNotAMember)
	}
	return access.Allow()
}

func permitPromote(in Input) access.Decision {
	if in.Actor != access.RoleOwner {
		return access.Deny(access.ReasonNotPrivileged)
	}
	if in.ActorIsTarget {
		return access.Deny(access.ReasonSelfTargetForbidden)
	}
	if in.Target == access.RoleModerator {
		return access.Deny(access.ReasonAlreadyInState)
	}
	if in.Target != access.RoleMember {
		return access.Deny(access.ReasonNotAMember)
	}
	return access.Allow()
}

func permitBan(in Input) access.Decision {
	if !in.Actor.IsPrivileged() {
		return access.Deny(access.ReasonNotPrivileged)
	}
	if in.ActorIsTarget {
		return access.Deny(access.ReasonSelfTargetForbidden)
	}
	if in.Target == access.RoleOwner {
		return access.Deny(access.ReasonTargetIsOwner)
	}
	if in.Actor == access.RoleModerator && in.Target == access.RoleModerator {
		return access.Deny(access.ReasonTargetIsPeerModerator)
	}
	if in.Target == access.RoleBanned {
		return access.Deny(access.ReasonAlreadyInState)
	}
	if !in.Target.IsMember() {
		return access.Deny(access.ReasonNotAMember)
	}
	return access.Allow()
}

func requireMembership(in Input) access.Decision {
	if in.Actor.IsMember() {
		return access.Allow()
	}
	if in.Actor == access.RoleBanned {
		return access.Deny(access.ReasonBanned)
	}
	return access.Deny(access.ReasonNotAMember)
}

func requirePrivileged(in Input) access.Decision {
	if in.Actor.IsPrivileged() {
		return access.Allow()
	}
	return access.Deny(access.ReasonNotPrivileged)
}

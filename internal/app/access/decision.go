package access

// Reason is a structured deny reason. The HTTP boundary maps these to
// user-facing messages; nothing outside the core re-derives the logic.
type Reason string

const (
	// ReasonNotAMember: the action requires group membership.
	ReasonNotAMember Reason = "not_a_member"

	// ReasonNotPrivileged: the action requires moderator or owner standing.
	ReasonNotPrivileged Reason = "not_privileged"

	// ReasonTargetIsOwner: the group owner cannot be removed, banned, or
	// otherwise acted against by membership actions.
	ReasonTargetIsOwner Reason = "target_is_owner"

	// ReasonTargetIsPeerModerator: a moderator cannot act against another
	// moderator; only the owner can.
	ReasonTargetIsPeerModerator Reason = "target_is_peer_moderator"

	// ReasonSelfTargetForbidden: the actor targeted themselves on an action
	// that forbids it (ban, remove, promote).
	ReasonSelfTargetForbidden Reason = "self_target_forbidden"

	// ReasonAlreadyInState: the target already holds the status the action
	// would grant (already a member, already banned, already a moderator).
	ReasonAlreadyInState Reason = "already_in_state"

	// ReasonTopicClosed: closed topics accept no new or edited comments and
	// no topic edits.
	ReasonTopicClosed Reason = "topic_closed"

	// ReasonNotAuthor: edits are restricted to the original author.
	ReasonNotAuthor Reason = "not_author"

	// ReasonJoinNotPermitted: the target user has not opted in to being
	// added to groups by other people.
	ReasonJoinNotPermitted Reason = "join_not_permitted"

	// ReasonBanned: the actor is banned from the group.
	ReasonBanned Reason = "banned"

	// ReasonUnknownAction: the action is not in the policy's vocabulary.
	// Policy fails closed rather than guessing.
	ReasonUnknownAction Reason = "unknown_action"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  Reason // set only when Allowed is false
}

// Allow returns a permitting decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a denying decision carrying the structured reason.
func Deny(reason Reason) Decision { return Decision{Reason: reason} }

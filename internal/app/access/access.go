// Package access is the shared vocabulary of the access-control core:
// membership statuses, resolved roles, the action catalog, policy decisions
// with structured deny reasons, the error taxonomy, and the persistence
// collaborator interface the core reads and mutates through.
//
// The core itself is split across subpackages the way the rest of the app is:
//
//   - access/roles       resolves a (user, group) pair to a single Role
//   - access/policy      pure permit/deny decisions, no I/O
//   - access/transitions the membership state machine (atomic CAS writes)
//   - access/visibility  group content visibility scoping
//   - access/mediator    the one call path HTTP handlers go through
//
// Handlers never re-derive role checks; everything funnels through the
// mediator.
package access

// Status is the authoritative membership status of a (user, group) pair.
// Exactly one status holds at any time; StatusNone is the absence of a
// membership record. Group ownership is not a Status — it is a fixed
// attribute of the group itself (see GroupInfo.OwnerID).
type Status string

const (
	// StatusNone means no membership record exists for the pair.
	StatusNone Status = ""

	// StatusRequested means the user has asked to join a private group
	// and is waiting for an owner or moderator to accept.
	StatusRequested Status = "requested"

	// StatusMember is an accepted participant of the group.
	StatusMember Status = "member"

	// StatusModerator is a member granted elevated rights by the owner.
	StatusModerator Status = "moderator"

	// StatusBanned is a user explicitly barred from the group. Banned is
	// exclusive of every other status.
	StatusBanned Status = "banned"
)

// Valid reports whether s is one of the recognized statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusRequested, StatusMember, StatusModerator, StatusBanned:
		return true
	}
	return false
}

// Role is a user's resolved standing in a group: the membership status plus
// the orthogonal owner attribute collapsed into one value. RoleOwner and
// RoleModerator both count as members for visibility purposes but are
// tracked distinctly for action permissions.
type Role string

const (
	RoleNone      Role = "none"
	RoleRequester Role = "requester"
	RoleMember    Role = "member"
	RoleModerator Role = "moderator"
	RoleOwner     Role = "owner"
	RoleBanned    Role = "banned"
)

// IsMember reports whether the role counts as a member of the group
// (member, moderator, or owner).
func (r Role) IsMember() bool {
	return r == RoleMember || r == RoleModerator || r == RoleOwner
}

// IsPrivileged reports whether the role can act on other memberships
// (moderator or owner).
func (r Role) IsPrivileged() bool {
	return r == RoleModerator || r == RoleOwner
}

// FromStatus maps a membership status to the role it implies for a
// non-owner. Owners never reach this mapping; the resolver short-circuits
// on the group's owner_id first.
func FromStatus(s Status) Role {
	switch s {
	case StatusRequested:
		return RoleRequester
	case StatusMember:
		return RoleMember
	case StatusModerator:
		return RoleModerator
	case StatusBanned:
		return RoleBanned
	default:
		return RoleNone
	}
}

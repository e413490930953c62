// Package visibility scopes what a user may see of a group's content.
//
// The filter produces one of two scopes: Full for members of a private
// group (and everyone on a public group), or PublicSummaryOnly for
// outsiders looking at a private group. A topic's closed flag is surfaced
// alongside content but never hides it; closed only blocks new comments.
package visibility

import (
	"github.com/dalemusser/commonshub/internal/app/access"
)

// Scope is the visibility level of group content for one viewer.
type Scope string

const (
	// ScopeFull: topics, comments, and the member/moderator rosters are
	// all visible. Ban and join-request rosters still require moderator
	// or owner standing (see the policy's roster-view actions).
	ScopeFull Scope = "full"

	// ScopePublicSummaryOnly: only the group's identity (id, name,
	// privacy) is visible. No rosters, no topics, no comments.
	ScopePublicSummaryOnly Scope = "public_summary_only"
)

// ForGroup computes the viewer's scope from the group's privacy and the
// viewer's resolved role. Public groups are fully visible to anyone,
// including banned users and signed-out visitors.
func ForGroup(isPrivate bool, viewer access.Role) Scope {
	if !isPrivate {
		return ScopeFull
	}
	if viewer.IsMember() {
		return ScopeFull
	}
	return ScopePublicSummaryOnly
}

// CanComment reports whether new comments are accepted on a topic within
// the viewer's scope. Closed topics accept no new comments regardless of
// membership or role.
func CanComment(scope Scope, viewer access.Role, topicClosed bool) bool {
	if scope != ScopeFull || topicClosed {
		return false
	}
	return viewer.IsMember()
}

package policy_test

import (
	"testing"

	"github.com/dalemusser/commonshub/internal/app/access"
	"github.com/dalemusser/commonshub/internal/app/access/policy"
)

func TestPermit_ViewGroupContent(t *testing.T) {
	tests := []struct {
		name    string
		in      policy.Input
		allowed bool
		reason  access.Reason
	}{
		{
			name:    "public group, anonymous viewer",
			in:      policy.Input{Actor: access.RoleNone, GroupIsPrivate: false},
			allowed: true,
		},
		{
			name:    "public group, banned viewer",
			in:      policy.Input{Actor: access.RoleBanned, GroupIsPrivate: false},
			allowed: true,
		},
		{
			name:   "private group, non-member",
			in:     policy.Input{Actor: access.RoleNone, GroupIsPrivate: true},
			reason: access.ReasonNotAMember,
		},
		{
			name:   "private group, requester",
			in:     policy.Input{Actor: access.RoleRequester, GroupIsPrivate: true},
			reason: access.ReasonNotAMember,
		},
		{
			name:    "private group, member",
			in:      policy.Input{Actor: access.RoleMember, GroupIsPrivate: true},
			allowed: true,
		},
		{
			name:    "private group, owner",
			in:      policy.Input{Actor: access.RoleOwner, GroupIsPrivate: true},
			allowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Permit(access.ActionViewGroupContent, tt.in)
			if d.Allowed != tt.allowed {
				t.Errorf("Allowed: got %v, want %v", d.Allowed, tt.allowed)
			}
			if !tt.allowed && d.Reason != tt.reason {
				t.Errorf("Reason: got %q, want %q", d.Reason, tt.reason)
			}
		})
	}
}

func TestPermit_CreateComment_ClosedTopic(t *testing.T) {
	d := policy.Permit(access.ActionCreateComment, policy.Input{
		Actor:       access.RoleMember,
		TopicClosed: true,
	})
	if d.Allowed {
		t.Fatal("expected deny for comment on closed topic")
	}
	if d.Reason != access.ReasonTopicClosed {
		t.Errorf("Reason: got %q, want %q", d.Reason, access.ReasonTopicClosed)
	}

	// Owner standing does not reopen a closed topic.
	d = policy.Permit(access.ActionCreateComment, policy.Input{
		Actor:       access.RoleOwner,
		TopicClosed: true,
	})
	if d.Allowed {
		t.Error("expected deny even for the owner on a closed topic")
	}
}

func TestPermit_EditTopic_AuthorOnly(t *testing.T) {
	d := policy.Permit(access.ActionEditTopic, policy.Input{
		Actor:         access.RoleModerator,
		ActorIsAuthor: false,
	})
	if d.Allowed || d.Reason != access.ReasonNotAuthor {
		t.Errorf("moderator editing someone else's topic: got (%v, %q), want deny not_author", d.Allowed, d.Reason)
	}

	d = policy.Permit(access.ActionEditTopic, policy.Input{
		Actor:         access.RoleMember,
		ActorIsAuthor: true,
		TopicClosed:   true,
	})
	if d.Allowed || d.Reason != access.ReasonTopicClosed {
		t.Errorf("author editing a closed topic: got (%v, %q), want deny topic_closed", d.Allowed, d.Reason)
	}

	d = policy.Permit(access.ActionEditTopic, policy.Input{
		Actor:         access.RoleMember,
		ActorIsAuthor: true,
	})
	if !d.Allowed {
		t.Errorf("author editing an open topic: got deny %q", d.Reason)
	}
}

func TestPermit_DeleteContent(t *testing.T) {
	// Author may delete their own.
	d := policy.Permit(access.ActionDeleteComment, policy.Input{
		Actor:         access.RoleMember,
		ActorIsAuthor: true,
	})
	if !d.Allowed {
		t.Errorf("author delete: got deny %q", d.Reason)
	}

	// Moderator may delete anyone's.
	d = policy.Permit(access.ActionDeleteTopic, policy.Input{Actor: access.RoleModerator})
	if !d.Allowed {
		t.Errorf("moderator delete: got deny %q", d.Reason)
	}

	// A plain member may not delete someone else's.
	d = policy.Permit(access.ActionDeleteTopic, policy.Input{Actor: access.RoleMember})
	if d.Allowed || d.Reason != access.ReasonNotPrivileged {
		t.Errorf("member deleting another's topic: got (%v, %q), want deny not_privileged", d.Allowed, d.Reason)
	}
}

func TestPermit_CloseTopic(t *testing.T) {
	tests := []struct {
		name    string
		actor   access.Role
		allowed bool
		reason  access.Reason
	}{
		{name: "owner", actor: access.RoleOwner, allowed: true},
		{name: "moderator", actor: access.RoleModerator, allowed: true},
		{name: "member", actor: access.RoleMember, reason: access.ReasonNotPrivileged},
		{name: "author but not privileged", actor: access.RoleMember, reason: access.ReasonNotPrivileged},
		{name: "stranger", actor: access.RoleNone, reason: access.ReasonNotAMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Permit(access.ActionCloseTopic, policy.Input{Actor: tt.actor, ActorIsAuthor: tt.name == "author but not privileged"})
			if d.Allowed != tt.allowed {
				t.Errorf("allowed = %v, want %v", d.Allowed, tt.allowed)
			}
			if !tt.allowed && d.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", d.Reason, tt.reason)
			}
		})
	}
}

func TestPermit_RequestJoin(t *testing.T) {
	tests := []struct {
		name    string
		actor   access.Role
		allowed bool
		reason  access.Reason
	}{
		{name: "stranger", actor: access.RoleNone, allowed: true},
		{name: "banned", actor: access.RoleBanned, reason: access.ReasonBanned},
		{name: "already requested", actor: access.RoleRequester, reason: access.ReasonAlreadyInState},
		{name: "already member", actor: access.RoleMember, reason: access.ReasonAlreadyInState},
		{name: "owner", actor: access.RoleOwner, reason: access.ReasonAlreadyInState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Permit(access.ActionRequestJoin, policy.Input{Actor: tt.actor})
			if d.Allowed != tt.allowed {
				t.Errorf("Allowed: got %v, want %v", d.Allowed, tt.allowed)
			}
			if !tt.allowed && d.Reason != tt.reason {
				t.Errorf("Reason: got %q, want %q", d.Reason, tt.reason)
			}
		})
	}
}

func TestPermit_AddMember(t *testing.T) {
	base := policy.Input{
		Actor:             access.RoleModerator,
		Target:            access.RoleNone,
		TargetPermitsJoin: true,
	}

	if d := policy.Permit(access.ActionAddMember, base); !d.Allowed {
		t.Errorf("moderator adding opted-in stranger: got deny %q", d.Reason)
	}

	in := base
	in.TargetPermitsJoin = false
	if d := policy.Permit(access.ActionAddMember, in); d.Allowed || d.Reason != access.ReasonJoinNotPermitted {
		t.Errorf("target without opt-in: got (%v, %q), want deny join_not_permitted", d.Allowed, d.Reason)
	}

	in = base
	in.Target = access.RoleBanned
	if d := policy.Permit(access.ActionAddMember, in); d.Allowed || d.Reason != access.ReasonBanned {
		t.Errorf("banned target: got (%v, %q), want deny banned", d.Allowed, d.Reason)
	}

	in = base
	in.Target = access.RoleMember
	if d := policy.Permit(access.ActionAddMember, in); d.Allowed || d.Reason != access.ReasonAlreadyInState {
		t.Errorf("already-member target: got (%v, %q), want deny already_in_state", d.Allowed, d.Reason)
	}

	in = base
	in.Actor = access.RoleMember
	if d := policy.Permit(access.ActionAddMember, in); d.Allowed || d.Reason != access.ReasonNotPrivileged {
		t.Errorf("plain member adding: got (%v, %q), want deny not_privileged", d.Allowed, d.Reason)
	}
}

func TestPermit_RemoveMember(t *testing.T) {
	tests := []struct {
		name    string
		in      policy.Input
		allowed bool
		reason  access.Reason
	}{
		{
			name:    "owner removes member",
			in:      policy.Input{Actor: access.RoleOwner, Target: access.RoleMember},
			allowed: true,
		},
		{
			name:    "moderator removes member",
			in:      policy.Input{Actor: access.RoleModerator, Target: access.RoleMember},
			allowed: true,
		},
		{
			name:    "owner removes moderator",
			in:      policy.Input{Actor: access.RoleOwner, Target: access.RoleModerator},
			allowed: true,
		},
		{
			name:   "moderator removes moderator",
			in:     policy.Input{Actor: access.RoleModerator, Target: access.RoleModerator},
			reason: access.ReasonTargetIsPeerModerator,
		},
		{
			name:   "remove the owner",
			in:     policy.Input{Actor: access.RoleModerator, Target: access.RoleOwner},
			reason: access.ReasonTargetIsOwner,
		},
		{
			name:   "self-removal via remove",
			in:     policy.Input{Actor: access.RoleModerator, Target: access.RoleModerator, ActorIsTarget: true},
			reason: access.ReasonSelfTargetForbidden,
		},
		{
			name:   "member removes member",
			in:     policy.Input{Actor: access.RoleMember, Target: access.RoleMember},
			reason: access.ReasonNotPrivileged,
		},
		{
			name:   "remove a non-member",
			in:     policy.Input{Actor: access.RoleOwner, Target: access.RoleNone},
			reason: access.ReasonNotAMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Permit(access.ActionRemoveMember, tt.in)
			if d.Allowed != tt.allowed {
				t.Errorf("Allowed: got %v, want %v", d.Allowed, tt.allowed)
			}
			if !tt.allowed && d.Reason != tt.reason {
				t.Errorf("Reason: got %q, want %q", d.Reason, tt.reason)
			}
		})
	}
}

func TestPermit_Ban(t *testing.T) {
	tests := []struct {
		name    string
		in      policy.Input
		allowed bool
		reason  access.Reason
	}{
		{
			name:    "moderator bans member",
			in:      policy.Input{Actor: access.RoleModerator, Target: access.RoleMember},
			allowed: true,
		},
		{
			name:    "owner bans moderator",
			in:      policy.Input{Actor: access.RoleOwner, Target: access.RoleModerator},
			allowed: true,
		},
		{
			name:   "moderator bans moderator",
			in:     policy.Input{Actor: access.RoleModerator, Target: access.RoleModerator},
			reason: access.ReasonTargetIsPeerModerator,
		},
		{
			name:   "ban the owner",
			in:     policy.Input{Actor: access.RoleModerator, Target: access.RoleOwner},
			reason: access.ReasonTargetIsOwner,
		},
		{
			name:   "owner bans self",
			in:     policy.Input{Actor: access.RoleOwner, Target: access.RoleOwner, ActorIsTarget: true},
			reason: access.ReasonSelfTargetForbidden,
		},
		{
			name:   "ban an already banned user",
			in:     policy.Input{Actor: access.RoleOwner, Target: access.RoleBanned},
			reason: access.ReasonAlreadyInState,
		},
		{
			name:   "ban a non-member",
			in:     policy.Input{Actor: access.RoleOwner, Target: access.RoleNone},
			reason: access.ReasonNotAMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Permit(access.ActionBanMember, tt.in)
			if d.Allowed != tt.allowed {
				t.Errorf("Allowed: got %v, want %v", d.Allowed, tt.allowed)
			}
			if !tt.allowed && d.Reason != tt.reason {
				t.Errorf("Reason: got %q, want %q", d.Reason, tt.reason)
			}
		})
	}
}

func TestPermit_PromoteDemote(t *testing.T) {
	// Only the owner promotes.
	d := policy.Permit(access.ActionPromoteModerator, policy.Input{
		Actor:  access.RoleModerator,
		Target: access.RoleMember,
	})
	if d.Allowed || d.Reason != access.ReasonNotPrivileged {
		t.Errorf("moderator promoting: got (%v, %q), want deny not_privileged", d.Allowed, d.Reason)
	}

	// Self-promotion is forbidden even for the owner.
	d = policy.Permit(access.ActionPromoteModerator, policy.Input{
		Actor:         access.RoleOwner,
		Target:        access.RoleOwner,
		ActorIsTarget: true,
	})
	if d.Allowed || d.Reason != access.ReasonSelfTargetForbidden {
		t.Errorf("self-promotion: got (%v, %q), want deny self_target_forbidden", d.Allowed, d.Reason)
	}

	// Promotion requires prior membership.
	d = policy.Permit(access.ActionPromoteModerator, policy.Input{
		Actor:  access.RoleOwner,
		Target: access.RoleRequester,
	})
	if d.Allowed || d.Reason != access.ReasonNotAMember {
		t.Errorf("promoting a requester: got (%v, %q), want deny not_a_member", d.Allowed, d.Reason)
	}

	d = policy.Permit(access.ActionPromoteModerator, policy.Input{
		Actor:  access.RoleOwner,
		Target: access.RoleModerator,
	})
	if d.Allowed || d.Reason != access.ReasonAlreadyInState {
		t.Errorf("promoting a moderator: got (%v, %q), want deny already_in_state", d.Allowed, d.Reason)
	}

	d = policy.Permit(access.ActionPromoteModerator, policy.Input{
		Actor:  access.RoleOwner,
		Target: access.RoleMember,
	})
	if !d.Allowed {
		t.Errorf("owner promoting a member: got deny %q", d.Reason)
	}

	// Demote is owner-only.
	d = policy.Permit(access.ActionDemoteModerator, policy.Input{Actor: access.RoleModerator})
	if d.Allowed || d.Reason != access.ReasonNotPrivileged {
		t.Errorf("moderator demoting: got (%v, %q), want deny not_privileged", d.Allowed, d.Reason)
	}
	d = policy.Permit(access.ActionDemoteModerator, policy.Input{Actor: access.RoleOwner})
	if !d.Allowed {
		t.Errorf("owner demoting: got deny %q", d.Reason)
	}
}

func TestPermit_LeaveGroup(t *testing.T) {
	d := policy.Permit(access.ActionLeaveGroup, policy.Input{Actor: access.RoleOwner})
	if d.Allowed || d.Reason != access.ReasonTargetIsOwner {
		t.Errorf("owner leaving: got (%v, %q), want deny target_is_owner", d.Allowed, d.Reason)
	}

	d = policy.Permit(access.ActionLeaveGroup, policy.Input{Actor: access.RoleMember})
	if !d.Allowed {
		t.Errorf("member leaving: got deny %q", d.Reason)
	}

	d = policy.Permit(access.ActionLeaveGroup, policy.Input{Actor: access.RoleNone})
	if d.Allowed || d.Reason != access.ReasonNotAMember {
		t.Errorf("non-member leaving: got (%v, %q), want deny not_a_member", d.Allowed, d.Reason)
	}
}

func TestPermit_GroupAdministration(t *testing.T) {
	// Update: owner or moderator.
	for _, actor := range []access.Role{access.RoleOwner, access.RoleModerator} {
		if d := policy.Permit(access.ActionUpdateGroupSettings, policy.Input{Actor: actor}); !d.Allowed {
			t.Errorf("%s updating settings: got deny %q", actor, d.Reason)
		}
	}
	if d := policy.Permit(access.ActionUpdateGroupSettings, policy.Input{Actor: access.RoleMember}); d.Allowed {
		t.Error("member updating settings: expected deny")
	}

	// Delete: owner only.
	if d := policy.Permit(access.ActionDeleteGroup, policy.Input{Actor: access.RoleModerator}); d.Allowed {
		t.Error("moderator deleting group: expected deny")
	}
	if d := policy.Permit(access.ActionDeleteGroup, policy.Input{Actor: access.RoleOwner}); !d.Allowed {
		t.Errorf("owner deleting group: got deny %q", d.Reason)
	}
}

func TestPermit_RosterViews(t *testing.T) {
	for _, action := range []access.Action{access.ActionViewBanRoster, access.ActionViewJoinRequests} {
		if d := policy.Permit(action, policy.Input{Actor: access.RoleMember}); d.Allowed {
			t.Errorf("%s as member: expected deny", action)
		}
		if d := policy.Permit(action, policy.Input{Actor: access.RoleModerator}); !d.Allowed {
			t.Errorf("%s as moderator: got deny %q", action, d.Reason)
		}
	}
}

func TestPermit_UnknownAction_FailsClosed(t *testing.T) {
	d := policy.Permit(access.Action("frobnicate"), policy.Input{Actor: access.RoleOwner})
	if d.Allowed {
		t.Error("unknown action: expected deny")
	}
	if d.Reason != access.ReasonUnknownAction {
		t.Errorf("reason = %q, want %q", d.Reason, access.ReasonUnknownAction)
	}
}

package visibility_test

import (
	"testing"

	"github.com/dalemusser/commonshub/internal/app/access"
	"github.com/dalemusser/commonshub/internal/app/access/visibility"
)

func TestForGroup_PublicIsFullForEveryone(t *testing.T) {
	for _, viewer := range []access.Role{
		access.RoleNone, access.RoleRequester, access.RoleMember,
		access.RoleModerator, access.RoleOwner, access.RoleBanned,
	} {
		if got := visibility.ForGroup(false, viewer); got != visibility.ScopeFull {
			t.Errorf("public group, %s: got %q, want %q", viewer, got, visibility.ScopeFull)
		}
	}
}

func TestForGroup_Private(t *testing.T) {
	tests := []struct {
		viewer access.Role
		want   visibility.Scope
	}{
		{access.RoleNone, visibility.ScopePublicSummaryOnly},
		{access.RoleRequester, visibility.ScopePublicSummaryOnly},
		{access.RoleBanned, visibility.ScopePublicSummaryOnly},
		{access.RoleMember, visibility.ScopeFull},
		{access.RoleModerator, visibility.ScopeFull},
		{access.RoleOwner, visibility.ScopeFull},
	}
	for _, tt := range tests {
		if got := visibility.ForGroup(true, tt.viewer); got != tt.want {
			t.Errorf("private group, %s: got %q, want %q", tt.viewer, got, tt.want)
		}
	}
}

func TestCanComment(t *testing.T) {
	if !visibility.CanComment(visibility.ScopeFull, access.RoleMember, false) {
		t.Error("member on an open topic should be able to comment")
	}
	if visibility.CanComment(visibility.ScopeFull, access.RoleMember, true) {
		t.Error("closed topics accept no comments")
	}
	if visibility.CanComment(visibility.ScopeFull, access.RoleOwner, true) {
		t.Error("closed topics accept no comments from the owner either")
	}
	if visibility.CanComment(visibility.ScopePublicSummaryOnly, access.RoleNone, false) {
		t.Error("summary scope never allows commenting")
	}
	if visibility.CanComment(visibility.ScopeFull, access.RoleRequester, false) {
		t.Error("requester is not yet a member")
	}
}

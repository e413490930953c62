package roles_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/commonshub/internal/app/access"
	"github.com/dalemusser/commonshub/internal/app/access/accesstest"
	"github.com/dalemusser/commonshub/internal/app/access/roles"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolve_Owner(t *testing.T) {
	store := accesstest.NewStore()
	owner := store.AddUser(true)
	groupID := store.AddGroup(owner, false)

	role, err := roles.Resolve(context.Background(), store, owner, groupID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if role != access.RoleOwner {
		t.Errorf("role: got %q, want %q", role, access.RoleOwner)
	}
}

func TestResolve_OwnerWinsOverMembershipRecord(t *testing.T) {
	// A stray membership record for the owner must not shadow ownership.
	store := accesstest.NewStore()
	owner := store.AddUser(true)
	groupID := store.AddGroup(owner, false)
	store.SetMembership(owner, groupID, access.StatusMember)

	role, err := roles.Resolve(context.Background(), store, owner, groupID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if role != access.RoleOwner {
		t.Errorf("role: got %q, want %q", role, access.RoleOwner)
	}
}

func TestResolve_FromMembershipStatus(t *testing.T) {
	store := accesstest.NewStore()
	owner := store.AddUser(true)
	groupID := store.AddGroup(owner, true)

	tests := []struct {
		status access.Status
		want   access.Role
	}{
		{access.StatusRequested, access.RoleRequester},
		{access.StatusMember, access.RoleMember},
		{access.StatusModerator, access.RoleModerator},
		{access.StatusBanned, access.RoleBanned},
	}
	for _, tt := range tests {
		user := store.AddUser(true)
		store.SetMembership(user, groupID, tt.status)
		role, err := roles.Resolve(context.Background(), store, user, groupID)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.status, err)
		}
		if role != tt.want {
			t.Errorf("status %q: got role %q, want %q", tt.status, role, tt.want)
		}
	}
}

func TestResolve_NoRecordIsNone(t *testing.T) {
	store := accesstest.NewStore()
	owner := store.AddUser(true)
	user := store.AddUser(true)
	groupID := store.AddGroup(owner, false)

	role, err := roles.Resolve(context.Background(), store, user, groupID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if role != access.RoleNone {
		t.Errorf("role: got %q, want %q", role, access.RoleNone)
	}
}

func TestResolve_AnonymousIsNone(t *testing.T) {
	store := accesstest.NewStore()
	owner := store.AddUser(true)
	groupID := store.AddGroup(owner, true)

	role, err := roles.Resolve(context.Background(), store, primitive.NilObjectID, groupID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if role != access.RoleNone {
		t.Errorf("role: got %q, want %q", role, access.RoleNone)
	}
}

func TestResolve_UnknownGroup(t *testing.T) {
	store := accesstest.NewStore()
	user := store.AddUser(true)

	_, err := roles.Resolve(context.Background(), store, user, primitive.NewObjectID())
	if !errors.Is(err, access.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

package groupstore_test

import (
	"testing"

	groupstore "github.com/dalemusser/commonshub/internal/app/store/groups"
	"github.com/dalemusser/commonshub/internal/domain/models"
	"github.com/dalemusser/commonshub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx := testutil.TestContext(t)

	owner := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Group{
		Name:      "Night Gardeners",
		OwnerID:   owner,
		IsPrivate: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI == "" {
		t.Error("expected folded name to be set")
	}
	if created.OwnerID != owner {
		t.Errorf("owner = %s, want %s", created.OwnerID.Hex(), owner.Hex())
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx := testutil.TestContext(t)

	g := models.Group{Name: "Chess Club", OwnerID: primitive.NewObjectID()}
	if _, err := store.Create(ctx, g); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Duplicate detection folds case.
	g.Name = "CHESS CLUB"
	g.OwnerID = primitive.NewObjectID()
	if _, err := store.Create(ctx, g); err != groupstore.ErrDuplicateGroupName {
		t.Errorf("got %v, want ErrDuplicateGroupName", err)
	}
}

func TestStore_UpdateInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx := testutil.TestContext(t)

	owner := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Group{Name: "Before", OwnerID: owner})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.UpdateInfo(ctx, created.ID, "After", "new description", true); err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "After" {
		t.Errorf("Name = %q, want %q", got.Name, "After")
	}
	if got.Description != "new description" {
		t.Errorf("Description = %q", got.Description)
	}
	if !got.IsPrivate {
		t.Error("expected IsPrivate to be set")
	}
	if got.OwnerID != owner {
		t.Error("owner must not change on update")
	}
}

func TestStore_UpdateInfo_EmptyNameKeepsOld(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.Group{Name: "Keep", OwnerID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.UpdateInfo(ctx, created.ID, "   ", "desc", false); err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}

	got, _ := store.GetByID(ctx, created.ID)
	if got.Name != "Keep" {
		t.Errorf("Name = %q, want unchanged", got.Name)
	}
}

func TestStore_List_NamePrefix(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx := testutil.TestContext(t)

	owner := primitive.NewObjectID()
	for _, name := range []string{"Alpine Hikers", "Alpha Testers", "Botany Basics"} {
		if _, err := store.Create(ctx, models.Group{Name: name, OwnerID: owner}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	groups, err := store.List(ctx, "alp", 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(groups) != 2 {
		t.Errorf("got %d groups, want 2", len(groups))
	}
}

func TestStore_ListByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx := testutil.TestContext(t)

	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	if _, err := store.Create(ctx, models.Group{Name: "Mine", OwnerID: owner}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Group{Name: "Theirs", OwnerID: other}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	groups, err := store.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Mine" {
		t.Errorf("got %+v, want just \"Mine\"", groups)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.Group{Name: "Doomed", OwnerID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}

	if _, err := store.GetByID(ctx, created.ID); err != mongo.ErrNoDocuments {
		t.Errorf("got %v, want mongo.ErrNoDocuments", err)
	}
}

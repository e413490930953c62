package topicstore_test

import (
	"errors"
	"testing"

	topicstore "github.com/dalemusser/commonshub/internal/app/store/topics"
	"github.com/dalemusser/commonshub/internal/domain/models"
	"github.com/dalemusser/commonshub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := topicstore.New(db)

	created, err := store.Create(ctx, models.Topic{
		GroupID:  primitive.NewObjectID(),
		AuthorID: primitive.NewObjectID(),
		Title:    "Opening theory",
		Body:     "Where do people stand on the London System?",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("expected Create to assign an ID")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected Create to set timestamps")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Opening theory" {
		t.Errorf("title = %q, want %q", got.Title, "Opening theory")
	}
	if got.IsClosed {
		t.Error("new topic should be open")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := topicstore.New(db)

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("got %v, want mongo.ErrNoDocuments", err)
	}
}

func TestStore_UpdateBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := topicstore.New(db)

	created, err := store.Create(ctx, models.Topic{
		GroupID:  primitive.NewObjectID(),
		AuthorID: primitive.NewObjectID(),
		Title:    "Draft",
		Body:     "first pass",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.UpdateBody(ctx, created.ID, "Final", "second pass"); err != nil {
		t.Fatalf("UpdateBody failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Final" || got.Body != "second pass" {
		t.Errorf("got title=%q body=%q", got.Title, got.Body)
	}
}

func TestStore_SetClosed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := topicstore.New(db)

	created, err := store.Create(ctx, models.Topic{
		GroupID:  primitive.NewObjectID(),
		AuthorID: primitive.NewObjectID(),
		Title:    "Heated thread",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetClosed(ctx, created.ID, true); err != nil {
		t.Fatalf("SetClosed failed: %v", err)
	}
	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.IsClosed {
		t.Error("topic should be closed")
	}

	if err := store.SetClosed(ctx, created.ID, false); err != nil {
		t.Fatalf("SetClosed reopen failed: %v", err)
	}
	got, err = store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsClosed {
		t.Error("topic should be reopened")
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := topicstore.New(db)

	created, err := store.Create(ctx, models.Topic{
		GroupID:  primitive.NewObjectID(),
		AuthorID: primitive.NewObjectID(),
		Title:    "Ephemeral",
	})
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

	n, err = store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second delete removed %d, want 0", n)
	}
}

func TestStore_ListAndCountByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := topicstore.New(db)

	groupA := primitive.NewObjectID()
	groupB := primitive.NewObjectID()
	author := primitive.NewObjectID()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := store.Create(ctx, models.Topic{GroupID: groupA, AuthorID: author, Title: title}); err != nil {
			t.Fatalf("Create %q failed: %v", title, err)
		}
	}
	if _, err := store.Create(ctx, models.Topic{GroupID: groupB, AuthorID: author, Title: "other"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	topics, err := store.ListByGroup(ctx, groupA, 0, 0)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(topics) != 3 {
		t.Fatalf("got %d topics, want 3", len(topics))
	}
	// Newest first.
	if topics[0].Title != "third" {
		t.Errorf("first listed = %q, want %q", topics[0].Title, "third")
	}

	page, err := store.ListByGroup(ctx, groupA, 2, 2)
	if err != nil {
		t.Fatalf("paged ListByGroup failed: %v", err)
	}
	if len(page) != 1 || page[0].Title != "first" {
		t.Errorf("page = %+v, want just the oldest topic", page)
	}

	n, err := store.CountByGroup(ctx, groupA)
	if err != nil {
		t.Fatalf("CountByGroup failed: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestStore_DeleteByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := topicstore.New(db)

	groupA := primitive.NewObjectID()
	groupB := primitive.NewObjectID()
	author := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		if _, err := store.Create(ctx, models.Topic{GroupID: groupA, AuthorID: author, Title: "doomed"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	kept, err := store.Create(ctx, models.Topic{GroupID: groupB, AuthorID: author, Title: "kept"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.DeleteByGroup(ctx, groupA)
	if err != nil {
		t.Fatalf("DeleteByGroup failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}

	if _, err := store.GetByID(ctx, kept.ID); err != nil {
		t.Errorf("topic in other group should survive: %v", err)
	}
}

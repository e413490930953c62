package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/commonshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Repeated calls accumulate parameters on the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with an internal auth method.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      text.Fold(email),
		AuthMethod: "internal",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTrustedUser creates a user permitted to add members directly.
func (f *Fixtures) CreateTrustedUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	user := f.CreateUser(ctx, fullName, email)
	_, err := f.db.Collection("users").UpdateByID(ctx, user.ID,
		primitive.M{"$set": primitive.M{"permitted_to_add_in_groups": true}})
	if err != nil {
		f.t.Fatalf("failed to mark test user trusted: %v", err)
	}
	user.PermittedToAddInGroups = true
	return user
}

// CreateGroup creates a test group owned by ownerID.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, ownerID primitive.ObjectID, private bool) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test group description",
		OwnerID:     ownerID,
		IsPrivate:   private,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("groups").InsertOne(ctx, group)
	if err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}

	return group
}

// CreateMembership creates a membership record linking a user to a group
// with the given status.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID, userID primitive.ObjectID, status string) models.GroupMembership {
	f.t.Helper()

	now := time.Now().UTC()
	membership := models.GroupMembership{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Status:    status,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("group_memberships").InsertOne(ctx, membership)
	if err != nil {
		f.t.Fatalf("failed to create test group membership: %v", err)
	}

	return membership
}

// CreateTopic creates a test topic in the given group.
func (f *Fixtures) CreateTopic(ctx context.Context, groupID, authorID primitive.ObjectID, title string) models.Topic {
	f.t.Helper()

	now := time.Now().UTC()
	topic := models.Topic{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		AuthorID:  authorID,
		Title:     title,
		Body:      "Test topic body",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("topics").InsertOne(ctx, topic)
	if err != nil {
		f.t.Fatalf("failed to create test topic: %v", err)
	}

	return topic
}

// CreateClosedTopic creates a topic already closed to new comments.
func (f *Fixtures) CreateClosedTopic(ctx context.Context, groupID, authorID primitive.ObjectID, title string) models.Topic {
	f.t.Helper()

	topic := f.CreateTopic(ctx, groupID, authorID, title)
	_, err := f.db.Collection("topics").UpdateByID(ctx, topic.ID,
		primitive.M{"$set": primitive.M{"is_closed": true}})
	if err != nil {
		f.t.Fatalf("failed to close test topic: %v", err)
	}
	topic.IsClosed = true
	return topic
}

// CreateComment creates a test comment on the given topic.
func (f *Fixtures) CreateComment(ctx context.Context, topicID, groupID, authorID primitive.ObjectID, body string) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		TopicID:   topicID,
		GroupID:   groupID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("comments").InsertOne(ctx, comment)
	if err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}

	return comment
}

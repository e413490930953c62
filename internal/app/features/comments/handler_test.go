package comments_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/commonshub/internal/app/access/mediator"
	"github.com/dalemusser/commonshub/internal/app/features/comments"
	"github.com/dalemusser/commonshub/internal/app/store/accessdata"
	auditstore "github.com/dalemusser/commonshub/internal/app/store/audit"
	commentstore "github.com/dalemusser/commonshub/internal/app/store/comments"
	groupstore "github.com/dalemusser/commonshub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/commonshub/internal/app/store/memberships"
	topicstore "github.com/dalemusser/commonshub/internal/app/store/topics"
	userstore "github.com/dalemusser/commonshub/internal/app/store/users"
	"github.com/dalemusser/commonshub/internal/app/system/auditlog"
	"github.com/dalemusser/commonshub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*comments.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	med := mediator.New(accessdata.New(
		groupstore.New(db),
		userstore.New(db),
		topicstore.New(db),
		commentstore.New(db),
		membershipstore.New(db),
	))
	audit := auditlog.New(auditstore.New(db), zap.NewNop(), auditlog.Config{})
	handler := comments.NewHandler(db, med, audit, zap.NewNop())
	return handler, testutil.NewFixtures(t, db)
}

func TestServeList_PublicGroupAnonymous(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	owner := fixtures.CreateUser(ctx, "Olive Owner", "olive@example.com")
	group := fixtures.CreateGroup(ctx, "Open Forum", owner.ID, false)
	topic := fixtures.CreateTopic(ctx, group.ID, owner.ID, "Discussion")
	fixtures.CreateComment(ctx, topic.ID, group.ID, owner.ID, "first")
	fixtures.CreateComment(ctx, topic.ID, group.ID, owner.ID, "second")

	req := testutil.NewRequest("GET", "/")
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "topicID", topic.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Comments []struct {
			Body string `json:"body"`
		} `json:"comments"`
		CanComment bool `json:"can_comment"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(body.Comments))
	}
	// Oldest first.
	if body.Comments[0].Body != "first" {
		t.Errorf("first comment = %q, want %q", body.Comments[0].Body, "first")
	}
	if body.CanComment {
		t.Error("anonymous viewer must not be able to comment")
	}
}

func TestServeList_PrivateGroupStrangerForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	owner := fixtures.CreateUser(ctx, "Olive Owner", "olive@example.com")
	group := fixtures.CreateGroup(ctx, "Secret Society", owner.ID, true)
	topic := fixtures.CreateTopic(ctx, group.ID, owner.ID, "Hidden")

	req := testutil.NewRequest("GET", "/")
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "topicID", topic.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeCreate_MemberOnOpenTopic(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	owner := fixtures.CreateUser(ctx, "Olive Owner", "olive@example.com")
	group := fixtures.CreateGroup(ctx, "Open Forum", owner.ID, false)
	member := fixtures.CreateUser(ctx, "Mia Member", "mia@example.com")
	fixtures.CreateMembership(ctx, group.ID, member.ID, "member")
	topic := fixtures.CreateTopic(ctx, group.ID, owner.ID, "Discussion")

	req := testutil.NewAuthenticatedJSONRequest("POST", "/",
		testutil.UserFor(member.ID, member.FullName, member.Email),
		map[string]any{"body": "Count me in."})
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "topicID", topic.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeCreate(rec, req)

	rec.AssertStatus(t, http.StatusCreated)

	n, err := fixtures.DB().Collection("comments").CountDocuments(ctx, bson.M{
		"topic_id":  topic.ID,
		"author_id": member.ID,
	})
	if err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if n != 1 {
		t.Errorf("comments stored = %d, want 1", n)
	}
}

func TestServeCreate_ClosedTopicDenied(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	owner := fixtures.CreateUser(ctx, "Olive Owner", "olive@example.com")
	group := fixtures.CreateGroup(ctx, "Open Forum", owner.ID, false)
	member := fixtures.CreateUser(ctx, "Mia Member", "mia@example.com")
	fixtures.CreateMembership(ctx, group.ID, member.ID, "member")
	topic := fixtures.CreateClosedTopic(ctx, group.ID, owner.ID, "Archived")

	req := testutil.NewAuthenticatedJSONRequest("POST", "/",
		testutil.UserFor(member.ID, member.FullName, member.Email),
		map[string]any{"body": "Too late?"})
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "topicID", topic.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeCreate(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertContains(t, "topic_closed")
}

func TestServeCreate_EmptyBodyRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	owner := fixtures.CreateUser(ctx, "Olive Owner", "olive@example.com")
	group := fixtures.CreateGroup(ctx, "Open Forum", owner.ID, false)
	topic := fixtures.CreateTopic(ctx, group.ID, owner.ID, "Discussion")

	req := testutil.NewAuthenticatedJSONRequest("POST", "/",
		testutil.UserFor(owner.ID, owner.FullName, owner.Email),
		map[string]any{"body": ""})
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "topicID", topic.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeCreate(rec, req)

	rec.AssertStatus(t, http.StatusUnprocessableEntity)
}

func TestServeUpdate_AuthorEditsOwnComment(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	owner := fixtures.CreateUser(ctx, "Olive Owner", "olive@example.com")
	group := fixtures.CreateGroup(ctx, "Open Forum", owner.ID, false)
	member := fixtures.CreateUser(ctx, "Mia Member", "mia@example.com")
	fixtures.CreateMembership(ctx, group.ID, member.ID, "member")
	topic := fixtures.CreateTopic(ctx, group.ID, owner.ID, "Discussion")
	comment := fixtures.CreateComment(ctx, topic.ID, group.ID, member.ID, "tpyo")

	req := testutil.NewAuthenticatedJSONRequest("PUT", "/"+comment.ID.Hex(),
		testutil.UserFor(member.ID, member.FullName, member.Email),
		map[string]any{"body": "typo fixed"})
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "commentID", comment.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeUpdate(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var stored struct {
		Body string `bson:"body"`
	}
	if err := fixtures.DB().Collection("comments").
		FindOne(ctx, bson.M{"_id": comment.ID}).Decode(&stored); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if stored.Body != "typo fixed" {
		t.Errorf("body = %q, want %q", stored.Body, "typo fixed")
	}
}

func TestServeUpdate_NonAuthorForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	owner := fixtures.CreateUser(ctx, "Olive Owner", "olive@example.com")
	group := fixtures.CreateGroup(ctx, "Open Forum", owner.ID, false)
	member := fixtures.CreateUser(ctx, "Mia Member", "mia@example.com")
	fixtures.CreateMembership(ctx, group.ID, member.ID, "member")
	other := fixtures.CreateUser(ctx, "Omar Other", "omar@example.com")
	fixtures.CreateMembership(ctx, group.ID, other.ID, "member")
	topic := fixtures.CreateTopic(ctx, group.ID, owner.ID, "Discussion")
	comment := fixtures.CreateComment(ctx, topic.ID, group.ID, member.ID, "mine")

	req := testutil.NewAuthenticatedJSONRequest("PUT", "/"+comment.ID.Hex(),
		testutil.UserFor(other.ID, other.FullName, other.Email),
		map[string]any{"body": "rewritten"})
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "commentID", comment.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeUpdate(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertContains(t, "not_author")
}

func TestServeDelete_AuthorAndModerator(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	owner := fixtures.CreateUser(ctx, "Olive Owner", "olive@example.com")
	group := fixtures.CreateGroup(ctx, "Open Forum", owner.ID, false)
	member := fixtures.CreateUser(ctx, "Mia Member", "mia@example.com")
	fixtures.CreateMembership(ctx, group.ID, member.ID, "member")
	mod := fixtures.CreateUser(ctx, "Max Mod", "max@example.com")
	fixtures.CreateMembership(ctx, group.ID, mod.ID, "moderator")
	topic := fixtures.CreateTopic(ctx, group.ID, owner.ID, "Discussion")

	// Author deletes their own comment.
	own := fixtures.CreateComment(ctx, topic.ID, group.ID, member.ID, "regret")
	req := testutil.NewAuthenticatedRequest("DELETE", "/"+own.ID.Hex(),
		testutil.UserFor(member.ID, member.FullName, member.Email))
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "commentID", own.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeDelete(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	// Moderator deletes someone else's comment.
	flagged := fixtures.CreateComment(ctx, topic.ID, group.ID, member.ID, "flagged")
	req = testutil.NewAuthenticatedRequest("DELETE", "/"+flagged.ID.Hex(),
		testutil.UserFor(mod.ID, mod.FullName, mod.Email))
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "commentID", flagged.ID.Hex())
	rec = testutil.NewRecorder()
	handler.ServeDelete(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	n, err := fixtures.DB().Collection("comments").CountDocuments(ctx, bson.M{"topic_id": topic.ID})
	if err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if n != 0 {
		t.Errorf("comments remaining = %d, want 0", n)
	}
}

func TestServeDelete_StrangerForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	owner := fixtures.CreateUser(ctx, "Olive Owner", "olive@example.com")
	group := fixtures.CreateGroup(ctx, "Open Forum", owner.ID, false)
	topic := fixtures.CreateTopic(ctx, group.ID, owner.ID, "Discussion")
	comment := fixtures.CreateComment(ctx, topic.ID, group.ID, owner.ID, "keep me")
	stranger := fixtures.CreateUser(ctx, "Sam Stranger", "sam@example.com")

	req := testutil.NewAuthenticatedRequest("DELETE", "/"+comment.ID.Hex(),
		testutil.UserFor(stranger.ID, stranger.FullName, stranger.Email))
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "commentID", comment.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeDelete(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertContains(t, "not_a_member")
}

package indexes_test

import (
	"context"
	"testing"

	"github.com/dalemusser/commonshub/internal/app/system/indexes"
	"github.com/dalemusser/commonshub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// listIndexNames returns the index names present on a collection.
func listIndexNames(t *testing.T, ctx context.Context, c *mongo.Collection) map[string]bool {
	t.Helper()
	cur, err := c.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes on %s: %v", c.Name(), err)
	}
	defer cur.Close(ctx)

	names := map[string]bool{}
	for cur.Next(ctx) {
		var idx struct {
			Name   string `bson:"name"`
			Unique bool   `bson:"unique"`
		}
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode index: %v", err)
		}
		names[idx.Name] = idx.Unique
	}
	return names
}

func TestEnsureAll_CreatesExpectedIndexes(t *testing.T) {
	// SetupTestDB already ran EnsureAll once.
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	tests := []struct {
		collection string
		index      string
		unique     bool
	}{
		{"users", "uniq_users_email", true},
		{"users", "idx_users_fullnameci__id", false},
		{"groups", "uniq_groups_nameci", true},
		{"groups", "idx_groups_owner_nameci", false},
		{"group_memberships", "uniq_gm_group_user", true},
		{"group_memberships", "idx_gm_group_status_user", false},
		{"group_memberships", "idx_gm_user_status_group", false},
		{"topics", "idx_topics_group_created", false},
		{"topics", "idx_topics_author", false},
		{"comments", "idx_comments_topic_created", false},
		{"comments", "idx_comments_group", false},
		{"comments", "idx_comments_author", false},
		{"oauth_states", "uniq_oauthstates_state", true},
		{"oauth_states", "idx_oauthstates_ttl", false},
	}

	for _, tt := range tests {
		t.Run(tt.collection+"/"+tt.index, func(t *testing.T) {
			names := listIndexNames(t, ctx, db.Collection(tt.collection))
			unique, ok := names[tt.index]
			if !ok {
				t.Fatalf("index %s missing on %s (have %v)", tt.index, tt.collection, names)
			}
			if unique != tt.unique {
				t.Errorf("index %s unique = %v, want %v", tt.index, unique, tt.unique)
			}
		})
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	// Second run must reuse every index without error.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestMembershipUniqueIndexBlocksDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	c := db.Collection("group_memberships")
	doc := bson.M{
		"group_id": "g1",
		"user_id":  "u1",
		"status":   "member",
		"version":  int64(1),
	}
	if _, err := c.InsertOne(ctx, doc); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := c.InsertOne(ctx, doc); err == nil {
		t.Error("expected duplicate (group_id, user_id) insert to fail")
	}
}

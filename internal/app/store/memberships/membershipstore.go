// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/commonshub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Valid membership statuses. Absence of a document is the "none" state
// and is represented by the empty string in this package's API.
const (
	StatusRequested = "requested"
	StatusMember    = "member"
	StatusModerator = "moderator"
	StatusBanned    = "banned"
)

// MemberStatuses is the status set that counts as group membership.
// A moderator is still a member; promotion never removes someone from
// the member roster or the member count.
var MemberStatuses = []string{StatusMember, StatusModerator}

// ErrStale is returned by Swap when the document's status no longer
// matches the expected status the caller read. The caller lost a race
// and must re-read before retrying.
var ErrStale = errors.New("membership changed since read")

var errBadSwap = errors.New("swap requires expected and next to differ")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_memberships")}
}

// Status returns the current membership status for (groupID, userID),
// or "" when no document exists.
func (s *Store) Status(ctx context.Context, groupID, userID primitive.ObjectID) (string, error) {
	var m models.GroupMembership
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "user_id": userID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.Status, nil
}

// Swap atomically moves (groupID, userID) from the expected status to
// next. "" on either side means no document: expected=="" inserts,
// next=="" deletes, and both non-empty is a conditional update. In
// every case the write only lands if the stored status still equals
// expected; otherwise Swap returns ErrStale and changes nothing.
//
// The unique (group_id, user_id) index makes the insert arm safe: two
// racing inserts resolve to one winner and one duplicate-key error.
func (s *Store) Swap(ctx context.Context, groupID, userID primitive.ObjectID, expected, next string) error {
	if expected == next {
		return errBadSwap
	}
	now := time.Now().UTC()

	switch {
	case expected == "":
		doc := models.GroupMembership{
			ID:        primitive.NewObjectID(),
			GroupID:   groupID,
			UserID:    userID,
			Status:    next,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.c.InsertOne(ctx, doc); err != nil {
			if wafflemongo.IsDup(err) {
				return ErrStale
			}
			return err
		}
		return nil

	case next == "":
		res, err := s.c.DeleteOne(ctx, bson.M{
			"group_id": groupID,
			"user_id":  userID,
			"status":   expected,
		})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return ErrStale
		}
		return nil

	default:
		res, err := s.c.UpdateOne(ctx,
			bson.M{"group_id": groupID, "user_id": userID, "status": expected},
			bson.M{
				"$set": bson.M{"status": next, "updated_at": now},
				"$inc": bson.M{"version": 1},
			},
		)
		if err != nil {
			return err
		}
		if res.ModifiedCount == 0 {
			return ErrStale
		}
		return nil
	}
}

// statusFilter builds a group filter restricted to the given status
// set. An empty set matches every status.
func statusFilter(groupID primitive.ObjectID, statuses []string) bson.M {
	filter := bson.M{"group_id": groupID}
	switch len(statuses) {
	case 0:
	case 1:
		filter["status"] = statuses[0]
	default:
		filter["status"] = bson.M{"$in": statuses}
	}
	return filter
}

// ListByGroup returns memberships for a group whose status is in the
// given set (all statuses when the set is empty), newest first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, statuses []string, limit, offset int64) ([]models.GroupMembership, error) {
	filter := statusFilter(groupID, statuses)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(offset)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.GroupMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListByUser returns a user's memberships, optionally filtered by status.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, status string) ([]models.GroupMembership, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.GroupMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountByGroup returns the number of memberships for a group whose
// status is in the given set (all statuses when the set is empty).
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID, statuses []string) (int64, error) {
	return s.c.CountDocuments(ctx, statusFilter(groupID, statuses))
}

// DeleteByGroup removes all memberships for a group (group deletion
// cleanup). Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUser removes all memberships for a user (account deletion
// cleanup). Returns the number of documents deleted.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

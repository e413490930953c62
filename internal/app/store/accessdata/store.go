// Package accessdata adapts the concrete Mongo stores to the access
// core's Store interface, translating driver-level errors into the
// access error taxonomy: mongo.ErrNoDocuments becomes ErrNotFound and a
// stale compare-and-set becomes ErrConflict.
package accessdata

import (
	"context"
	"errors"

	"github.com/dalemusser/commonshub/internal/app/access"
	commentstore "github.com/dalemusser/commonshub/internal/app/store/comments"
	groupstore "github.com/dalemusser/commonshub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/commonshub/internal/app/store/memberships"
	topicstore "github.com/dalemusser/commonshub/internal/app/store/topics"
	userstore "github.com/dalemusser/commonshub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store implements access.Store over the Mongo-backed entity stores.
type Store struct {
	groups      *groupstore.Store
	users       *userstore.Store
	topics      *topicstore.Store
	comments    *commentstore.Store
	memberships *membershipstore.Store
}

func New(groups *groupstore.Store, users *userstore.Store, topics *topicstore.Store, comments *commentstore.Store, memberships *membershipstore.Store) *Store {
	return &Store{
		groups:      groups,
		users:       users,
		topics:      topics,
		comments:    comments,
		memberships: memberships,
	}
}

func (s *Store) Group(ctx context.Context, groupID primitive.ObjectID) (access.GroupInfo, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return access.GroupInfo{}, mapErr(err)
	}
	return access.GroupInfo{ID: g.ID, OwnerID: g.OwnerID, IsPrivate: g.IsPrivate}, nil
}

func (s *Store) Topic(ctx context.Context, topicID primitive.ObjectID) (access.TopicInfo, error) {
	t, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		return access.TopicInfo{}, mapErr(err)
	}
	return access.TopicInfo{ID: t.ID, GroupID: t.GroupID, AuthorID: t.AuthorID, IsClosed: t.IsClosed}, nil
}

func (s *Store) Comment(ctx context.Context, commentID primitive.ObjectID) (access.CommentInfo, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return access.CommentInfo{}, mapErr(err)
	}
	return access.CommentInfo{ID: c.ID, TopicID: c.TopicID, AuthorID: c.AuthorID}, nil
}

func (s *Store) User(ctx context.Context, userID primitive.ObjectID) (access.UserInfo, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return access.UserInfo{}, mapErr(err)
	}
	return access.UserInfo{ID: u.ID, PermittedToJoinGroups: u.PermittedToAddInGroups}, nil
}

func (s *Store) Membership(ctx context.Context, userID, groupID primitive.ObjectID) (access.Status, error) {
	status, err := s.memberships.Status(ctx, groupID, userID)
	if err != nil {
		return access.StatusNone, mapErr(err)
	}
	return access.Status(status), nil
}

func (s *Store) CompareAndSwapMembership(ctx context.Context, userID, groupID primitive.ObjectID, expected, next access.Status) error {
	err := s.memberships.Swap(ctx, groupID, userID, string(expected), string(next))
	if errors.Is(err, membershipstore.ErrStale) {
		return access.ErrConflict
	}
	return err
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return access.ErrNotFound
	}
	return err
}

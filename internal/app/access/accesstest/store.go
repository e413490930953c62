// Package accesstest provides an in-memory access.Store for exercising the
// core without MongoDB. The fake honors the same contract as the real
// store: ErrNotFound for absent entities and a genuinely atomic
// compare-and-set, so concurrency tests against it are meaningful.
package accesstest

import (
	"context"
	"sync"

	"github.com/dalemusser/commonshub/internal/app/access"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type pairKey struct {
	userID  primitive.ObjectID
	groupID primitive.ObjectID
}

// Store is a mutex-guarded in-memory implementation of access.Store.
type Store struct {
	mu          sync.Mutex
	groups      map[primitive.ObjectID]access.GroupInfo
	topics      map[primitive.ObjectID]access.TopicInfo
	comments    map[primitive.ObjectID]access.CommentInfo
	users       map[primitive.ObjectID]access.UserInfo
	memberships map[pairKey]access.Status
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		groups:      make(map[primitive.ObjectID]access.GroupInfo),
		topics:      make(map[primitive.ObjectID]access.TopicInfo),
		comments:    make(map[primitive.ObjectID]access.CommentInfo),
		users:       make(map[primitive.ObjectID]access.UserInfo),
		memberships: make(map[pairKey]access.Status),
	}
}

// AddUser seeds a user and returns its generated ID.
func (s *Store) AddUser(permittedToJoin bool) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	s.users[id] = access.UserInfo{ID: id, PermittedToJoinGroups: permittedToJoin}
	return id
}

// AddGroup seeds a group owned by ownerID and returns its generated ID.
func (s *Store) AddGroup(ownerID primitive.ObjectID, isPrivate bool) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	s.groups[id] = access.GroupInfo{ID: id, OwnerID: ownerID, IsPrivate: isPrivate}
	return id
}

// AddTopic seeds a topic and returns its generated ID.
func (s *Store) AddTopic(groupID, authorID primitive.ObjectID, closed bool) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	s.topics[id] = access.TopicInfo{ID: id, GroupID: groupID, AuthorID: authorID, IsClosed: closed}
	return id
}

// AddComment seeds a comment and returns its generated ID.
func (s *Store) AddComment(topicID, authorID primitive.ObjectID) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	s.comments[id] = access.CommentInfo{ID: id, TopicID: topicID, AuthorID: authorID}
	return id
}

// SetMembership force-writes a membership status, bypassing CAS. Test
// setup only.
func (s *Store) SetMembership(userID, groupID primitive.ObjectID, status access.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{userID: userID, groupID: groupID}
	if status == access.StatusNone {
		delete(s.memberships, key)
		return
	}
	s.memberships[key] = status
}

// CloseTopic flips a seeded topic's closed flag.
func (s *Store) CloseTopic(topicID primitive.ObjectID, closed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.topics[topicID]
	t.IsClosed = closed
	s.topics[topicID] = t
}

func (s *Store) Group(_ context.Context, groupID primitive.ObjectID) (access.GroupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return access.GroupInfo{}, access.ErrNotFound
	}
	return g, nil
}

func (s *Store) Topic(_ context.Context, topicID primitive.ObjectID) (access.TopicInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.topics[topicID]
	if !ok {
		return access.TopicInfo{}, access.ErrNotFound
	}
	return t, nil
}

func (s *Store) Comment(_ context.Context, commentID primitive.ObjectID) (access.CommentInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[commentID]
	if !ok {
		return access.CommentInfo{}, access.ErrNotFound
	}
	return c, nil
}

func (s *Store) User(_ context.Context, userID primitive.ObjectID) (access.UserInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return access.UserInfo{}, access.ErrNotFound
	}
	return u, nil
}

func (s *Store) Membership(_ context.Context, userID, groupID primitive.ObjectID) (access.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memberships[pairKey{userID: userID, groupID: groupID}], nil
}

func (s *Store) CompareAndSwapMembership(_ context.Context, userID, groupID primitive.ObjectID, expected, next access.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{userID: userID, groupID: groupID}
	if s.memberships[key] != expected {
		return access.ErrConflict
	}
	if next == access.StatusNone {
		delete(s.memberships, key)
		return nil
	}
	s.memberships[key] = next
	return nil
}

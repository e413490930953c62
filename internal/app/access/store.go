package access

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupInfo is the slice of a group the core needs for decisions.
type GroupInfo struct {
	ID        primitive.ObjectID
	OwnerID   primitive.ObjectID
	IsPrivate bool
}

// TopicInfo is the slice of a topic the core needs for decisions.
type TopicInfo struct {
	ID       primitive.ObjectID
	GroupID  primitive.ObjectID
	AuthorID primitive.ObjectID
	IsClosed bool
}

// CommentInfo is the slice of a comment the core needs for decisions.
type CommentInfo struct {
	ID       primitive.ObjectID
	TopicID  primitive.ObjectID
	AuthorID primitive.ObjectID
}

// UserInfo is the slice of a user the core needs for decisions.
type UserInfo struct {
	ID primitive.ObjectID

	// PermittedToJoinGroups is the user's opt-in gate for being added to
	// groups by someone else. Self-initiated joins ignore it.
	PermittedToJoinGroups bool
}

// Store is the persistence collaborator the core reads and mutates through.
// Reads need no transactional guarantee beyond consistency with the latest
// committed transition; the single mutation primitive is an atomic
// compare-and-set so concurrent actors cannot partially overwrite each
// other (see CompareAndSwapMembership).
//
// Implementations return ErrNotFound for absent entities and ErrConflict
// when a CAS precondition no longer holds at commit time.
type Store interface {
	// Group returns owner and privacy of a group, or ErrNotFound.
	Group(ctx context.Context, groupID primitive.ObjectID) (GroupInfo, error)

	// Topic returns the containing group, author, and closed flag of a
	// topic, or ErrNotFound.
	Topic(ctx context.Context, topicID primitive.ObjectID) (TopicInfo, error)

	// Comment returns the containing topic and author of a comment, or
	// ErrNotFound.
	Comment(ctx context.Context, commentID primitive.ObjectID) (CommentInfo, error)

	// User returns the join-permission flag of a user, or ErrNotFound.
	User(ctx context.Context, userID primitive.ObjectID) (UserInfo, error)

	// Membership returns the current status of the (user, group) pair.
	// StatusNone (with a nil error) means no record exists.
	Membership(ctx context.Context, userID, groupID primitive.ObjectID) (Status, error)

	// CompareAndSwapMembership atomically moves the pair from expected to
	// next. StatusNone on either side means record creation or deletion.
	// Returns ErrConflict if the current status is not the expected one at
	// commit time. The write is all-or-nothing: a ban can never leave a
	// user simultaneously member and banned.
	CompareAndSwapMembership(ctx context.Context, userID, groupID primitive.ObjectID, expected, next Status) error
}

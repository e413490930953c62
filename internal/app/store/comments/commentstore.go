// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"time"

	"github.com/dalemusser/commonshub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	var c models.Comment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

func (s *Store) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// UpdateBody changes a comment's body.
func (s *Store) UpdateBody(ctx context.Context, id primitive.ObjectID, body string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"body":       body,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a comment by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByTopic removes all comments on a topic (topic deletion cleanup).
// Returns the number of documents deleted.
func (s *Store) DeleteByTopic(ctx context.Context, topicID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"topic_id": topicID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGroup removes all comments in a group (group deletion cleanup).
// Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByTopic returns a topic's comments, oldest first.
func (s *Store) ListByTopic(ctx context.Context, topicID primitive.ObjectID, limit, offset int64) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(offset)
	}
	cur, err := s.c.Find(ctx, bson.M{"topic_id": topicID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var comments []models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByTopic returns the number of comments on a topic.
func (s *Store) CountByTopic(ctx context.Context, topicID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"topic_id": topicID})
}

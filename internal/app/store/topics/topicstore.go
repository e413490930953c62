// internal/app/store/topics/topicstore.go
package topicstore

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
	return &Store{c: db.Collection("topics")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Topic, error) {
	var t models.Topic
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Topic{}, err
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, t models.Topic) (models.Topic, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Topic{}, err
	}
	return t, nil
}

// UpdateBody changes a topic's title and body.
func (s *Store) UpdateBody(ctx context.Context, id primitive.ObjectID, title, body string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"title":      title,
		"body":       body,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetClosed opens or closes a topic.
func (s *Store) SetClosed(ctx context.Context, id primitive.ObjectID, closed bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_closed":  closed,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a topic by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGroup removes all topics in a group (group deletion cleanup).
// Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByGroup returns a group's topics, newest first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, limit, offset int64) ([]models.Topic, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(offset)
	}
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var topics []models.Topic
	if err := cur.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// CountByGroup returns the number of topics in a group.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// internal/app/store/oauthstate/store.go

// Package oauthstate persists one-time OAuth login tokens. A token is
// minted when we redirect to the provider, round-trips through the
// provider untouched, and is consumed exactly once on callback.
package oauthstate

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type stateDoc struct {
	State     string    `bson:"state"`
	ReturnURL string    `bson:"return_url,omitempty"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("oauth_states")}
}

// Save records a fresh state token together with the in-app URL the
// user should land on once the provider sends them back.
func (s *Store) Save(ctx context.Context, state, returnURL string, expiresAt time.Time) error {
	_, err := s.c.InsertOne(ctx, stateDoc{
		State:     state,
		ReturnURL: returnURL,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	})
	return err
}

// Validate consumes a state token and returns its return URL. The
// FindOneAndDelete makes consumption atomic: two callbacks racing on
// the same token see one winner, the other gets valid == false. An
// unknown or expired token is not an error, just invalid.
func (s *Store) Validate(ctx context.Context, state string) (returnURL string, valid bool, err error) {
	var doc stateDoc
	err = s.c.FindOneAndDelete(ctx, bson.M{
		"state":      state,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.ReturnURL, true, nil
}

// CleanupExpired sweeps tokens the TTL monitor has not collected yet.
// Mongo runs the TTL pass about once a minute, so abandoned logins can
// linger briefly; this removes them on demand.
func (s *Store) CleanupExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"expires_at": bson.M{"$lt": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Package redis stores sessions in Redis with a TTL.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"posflow/pkg/auth"
)

const keyPrefix = "session:"

// Store persists sessions in Redis.
type Store struct {
	client *redis.Client
}

// New creates a Redis session store.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Create stores sess under a new ID that expires after ttl.
func (s *Store) Create(ctx context.Context, sess auth.Session, ttl time.Duration) (auth.Session, error) {
	sess.ID = uuid.NewString()
	sess.ExpiresAt = time.Now().Add(ttl)
	b, err := json.Marshal(sess)
	if err != nil {
		return auth.Session{}, errors.Wrap(err, "encode session")
	}
	if err := s.client.Set(ctx, keyPrefix+sess.ID, b, ttl).Err(); err != nil {
		return auth.Session{}, errors.Wrap(err, "store session")
	}
	return sess, nil
}

// Get returns a live session.
func (s *Store) Get(ctx context.Context, id string) (auth.Session, error) {
	b, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if err != nil {
		return auth.Session{}, errors.Wrap(err, "get session")
	}
	var sess auth.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return auth.Session{}, errors.Wrap(err, "decode session")
	}
	return sess, nil
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

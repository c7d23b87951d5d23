// Package redis stores carts in Redis as JSON, one key per session.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"posflow/pkg/cart"
)

const keyPrefix = "cart:"

// Repository persists carts in Redis.
type Repository struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Redis repository. Carts expire ttl after their last update.
func New(client *redis.Client, ttl time.Duration) *Repository {
	return &Repository{client: client, ttl: ttl}
}

// Get returns the session's cart.
func (r *Repository) Get(ctx context.Context, sessionID string) (cart.State, error) {
	return load(ctx, r.client, sessionID)
}

// Update applies fn inside a WATCH transaction. A concurrent write to the
// same cart aborts the update with cart.ErrConflict.
func (r *Repository) Update(ctx context.Context, sessionID string, fn func(*cart.Cart) error) (cart.State, error) {
	key := keyPrefix + sessionID
	var out cart.State
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		st, err := load(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		c := cart.FromState(st)
		if err := fn(c); err != nil {
			return err
		}
		b, err := json.Marshal(c.State())
		if err != nil {
			return errors.Wrap(err, "encode cart")
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, b, r.ttl)
			return nil
		})
		out = c.State()
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return cart.State{}, cart.ErrConflict
	}
	if err != nil {
		return cart.State{}, err
	}
	return out, nil
}

// Delete removes the session's cart.
func (r *Repository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, keyPrefix+sessionID).Err()
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, c getter, sessionID string) (cart.State, error) {
	b, err := c.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New().State(), nil
	}
	if err != nil {
		return cart.State{}, errors.Wrap(err, "get cart")
	}
	var st cart.State
	if err := json.Unmarshal(b, &st); err != nil {
		return cart.State{}, errors.Wrap(err, "decode cart")
	}
	return cart.FromState(st).State(), nil
}

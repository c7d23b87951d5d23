// Package memory implements an in-memory session store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"posflow/pkg/auth"
)

// Store keeps sessions in a map. Expired sessions are dropped on read.
type Store struct {
	mu       sync.Mutex
	sessions map[string]auth.Session
	now      func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{sessions: make(map[string]auth.Session), now: time.Now}
}

// Create stores s under a new ID.
func (s *Store) Create(ctx context.Context, sess auth.Session, ttl time.Duration) (auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.ID = uuid.NewString()
	sess.ExpiresAt = s.now().Add(ttl)
	s.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns a live session.
func (s *Store) Get(ctx context.Context, id string) (auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes a session. Unknown IDs are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

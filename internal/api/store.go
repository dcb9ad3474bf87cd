package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Skili43/survey-tool/internal/services"
)

// memoryStore keeps live sessions in process. Sessions idle for longer than
// ttl are treated as gone and dropped by Sweep.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*services.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore returns an in-process SessionStore. A ttl of zero disables expiry.
func NewMemoryStore(ttl time.Duration) services.SessionStore {
	return newMemoryStore(ttl)
}

func newMemoryStore(ttl time.Duration) *memoryStore {
	return &memoryStore{
		sessions: map[string]*services.Session{},
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *memoryStore) Create(_ context.Context, sess *services.Session) error {
	if sess == nil || sess.ID == "" {
		return errors.New("session id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.sessions[sess.ID]; ok && !s.expired(cur) {
		return errors.New("session already exists")
	}
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*services.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cur, ok := s.sessions[id]
	if !ok || s.expired(cur) {
		return nil, nil
	}
	return cur.Clone(), nil
}

// Update runs fn on a copy under the write lock and commits only when fn succeeds.
func (s *memoryStore) Update(_ context.Context, id string, fn func(*services.Session) error) (*services.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.sessions[id]
	if !ok || s.expired(cur) {
		return nil, services.NewNotFoundError("session not found")
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.sessions[id] = next
	return next.Clone(), nil
}

func (s *memoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.sessions[id]
	if !ok {
		return false, nil
	}
	delete(s.sessions, id)
	return !s.expired(cur), nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *memoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *memoryStore) expired(sess *services.Session) bool {
	if s.ttl <= 0 {
		return false
	}
	return sess.UpdatedAt.Add(s.ttl).Before(s.now())
}

// Sweeper is implemented by stores that need periodic cleanup.
type Sweeper interface {
	Sweep() int
}

var _ services.SessionStore = (*memoryStore)(nil)
var _ Sweeper = (*memoryStore)(nil)

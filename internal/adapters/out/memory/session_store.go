package memory

import (
	"context"
	"sync"
	"time"

	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"
)

// SessionStore is a process-wide session map. Expired entries are dropped on read.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]ports.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]ports.Session), now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, session ports.Session) error {
	if session.ID == "" {
		return errs.NewValueIsRequiredError("session id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (ports.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return ports.Session{}, errs.NewObjectNotFoundError("session", id)
	}
	if !s.now().Before(session.ExpiresAt) {
		_ = s.Delete(context.Background(), id)
		return ports.Session{}, errs.NewObjectNotFoundError("session", id)
	}
	return session, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

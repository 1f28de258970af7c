package repository

import (
	"context"
	"sync"
	"time"
)

// Session is the server-side login state. FirmID is empty for an admin who has no firm yet.
type Session struct {
	UserID string `json:"userId"`
	FirmID string `json:"firmId,omitempty"`
}

// SessionStore keeps sessions keyed by an opaque session id
type SessionStore interface {
	Save(ctx context.Context, id string, session *Session, ttl time.Duration) error
	// Get returns (nil, nil) for unknown or expired sessions
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// MemorySessionStore keeps sessions in process memory
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	session   Session
	expiresAt time.Time
}

// NewMemorySessionStore creates an empty MemorySessionStore
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Save(ctx context.Context, id string, session *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memorySession{session: *session, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(stored.expiresAt) {
		delete(s.sessions, id)
		return nil, nil
	}
	session := stored.session
	return &session, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

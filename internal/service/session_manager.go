package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/pkg/middleware"
)

// IssuedSession is a freshly created session and its signed token
type IssuedSession struct {
	ID        string
	Token     string
	ExpiresAt time.Time
}

// SessionManager creates, resolves and destroys server-side sessions.
// The token only names the session; {userId, firmId} live in the session store.
type SessionManager struct {
	store repository.SessionStore
	token middleware.TokenConfig
	now   func() time.Time
}

// NewSessionManager creates a SessionManager
func NewSessionManager(store repository.SessionStore, token middleware.TokenConfig) *SessionManager {
	return &SessionManager{store: store, token: token, now: time.Now}
}

// Create starts a new session for userID. firmID may be empty.
func (m *SessionManager) Create(ctx context.Context, userID, firmID string) (*IssuedSession, error) {
	id := uuid.New().String()
	if err := m.store.Save(ctx, id, &repository.Session{UserID: userID, FirmID: firmID}, m.token.TTL); err != nil {
		return nil, storageErr("save session", err)
	}

	token, expiresAt, err := middleware.IssueToken(m.token, id, m.now())
	if err != nil {
		_ = m.store.Delete(ctx, id)
		return nil, err
	}
	return &IssuedSession{ID: id, Token: token, ExpiresAt: expiresAt}, nil
}

// Load implements middleware.SessionLoader
func (m *SessionManager) Load(ctx context.Context, sessionID string) (*middleware.Principal, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, storageErr("load session", err)
	}
	if sess == nil {
		return nil, nil
	}
	return &middleware.Principal{UserID: sess.UserID, FirmID: sess.FirmID, SessionID: sessionID}, nil
}

// Destroy invalidates a session
func (m *SessionManager) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return storageErr("delete session", m.store.Delete(ctx, sessionID))
}

// TTL is the lifetime of new sessions
func (m *SessionManager) TTL() time.Duration {
	return m.token.TTL
}

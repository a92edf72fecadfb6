package fakesessionrepo

import (
	"sync"

	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/resauth/go-auth-server/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]sessions.Session
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		sessions: make(map[string]sessions.Session),
	}
}

func (r *FakeSessionRepo) Upsert(sessionID string, session sessions.Session) error {
	if sessionID == "" {
		return ierrors.ErrSessionNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = session
	return nil
}

func (r *FakeSessionRepo) Get(sessionID string) (sessions.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return sessions.Session{}, ierrors.ErrSessionNotFound
	}
	return session, nil
}

func (r *FakeSessionRepo) Delete(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

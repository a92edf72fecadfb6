package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/resauth/go-auth-server/users"
)

// Gate tracks whether the current caller has an authenticated identity.
// It is independent of the protocol logic: the flow engine asks it
// questions, the HTTP layer moves session ids in and out of cookies.
type Gate struct {
	users      users.Repo
	sessions   Repo
	sessionTTL time.Duration
	nowTime    func() time.Time // injectable for testing
}

// GateOption modifies a Gate instance.
type GateOption func(*Gate)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) GateOption {
	return func(g *Gate) {
		g.nowTime = nowFunc
	}
}

func NewGate(userRepo users.Repo, sessionRepo Repo, sessionTTL time.Duration, options ...GateOption) (*Gate, error) {
	if userRepo == nil {
		return nil, errors.New("[NewGate] user repo is required")
	}
	if sessionRepo == nil {
		return nil, errors.New("[NewGate] session repo is required")
	}

	g := &Gate{
		users:      userRepo,
		sessions:   sessionRepo,
		sessionTTL: sessionTTL,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// Authenticate checks username and credential by exact equality.
// Returns ErrInvalidCredentials when no user matches; the caller cannot
// distinguish an unknown username from a wrong password.
func (g *Gate) Authenticate(_ context.Context, username, password string) (*users.User, error) {
	user, err := g.users.GetByUsername(username)
	if err != nil {
		return nil, ierrors.ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return nil, ierrors.ErrInvalidCredentials
	}
	return user, nil
}

// Attach creates a session for the user and returns its id for the cookie.
func (g *Gate) Attach(_ context.Context, userID string) (string, error) {
	now := g.nowTime()
	sessionID := uuid.New().String()

	err := g.sessions.Upsert(sessionID, Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(g.sessionTTL),
	})
	if err != nil {
		return "", errors.Wrap(err, "[Gate.Attach] sessions.Upsert")
	}
	return sessionID, nil
}

// Resolve maps a session id to its user id. Missing and expired sessions
// both resolve to not-attached; an expired session is deleted on the way.
func (g *Gate) Resolve(_ context.Context, sessionID string) (string, bool) {
	if sessionID == "" {
		return "", false
	}
	session, err := g.sessions.Get(sessionID)
	if err != nil {
		return "", false
	}
	if session.Expired(g.nowTime()) {
		_ = g.sessions.Delete(sessionID)
		return "", false
	}
	return session.UserID, true
}

// Clear removes the session. Idempotent; clearing an unknown or empty
// session id succeeds.
func (g *Gate) Clear(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return g.sessions.Delete(sessionID)
}

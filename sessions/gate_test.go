package sessions_test

import (
	"context"
	"testing"
	"time"

	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/resauth/go-auth-server/sessions"
	fakesessionrepo "github.com/resauth/go-auth-server/sessions/repofake"
	"github.com/resauth/go-auth-server/users"
	fakeuserrepo "github.com/resauth/go-auth-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const gateTestTTL = time.Hour

type gateFixture struct {
	gate *sessions.Gate
	now  time.Time
}

func setupGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	userRepo := fakeuserrepo.NewFakeUserRepo()
	require.NoError(t, userRepo.Upsert(&users.User{
		ID:       "user-1",
		Username: "user_test",
		Password: "pass_test",
	}))

	f := &gateFixture{now: time.Now()}
	gate, err := sessions.NewGate(userRepo, fakesessionrepo.NewFakeSessionRepo(), gateTestTTL,
		sessions.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.gate = gate
	return f
}

func TestAuthenticate(t *testing.T) {
	f := setupGateFixture(t)

	user, err := f.gate.Authenticate(context.Background(), "user_test", "pass_test")
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	f := setupGateFixture(t)

	_, unknownUser := f.gate.Authenticate(context.Background(), "no_such_user", "pass_test")
	_, wrongPassword := f.gate.Authenticate(context.Background(), "user_test", "wrong")

	require.ErrorIs(t, unknownUser, ierrors.ErrInvalidCredentials)
	require.ErrorIs(t, wrongPassword, ierrors.ErrInvalidCredentials)
	require.Equal(t, unknownUser.Error(), wrongPassword.Error())
}

func TestAuthenticateRequiresExactPassword(t *testing.T) {
	f := setupGateFixture(t)

	// Prefix, suffix and case variants all fail
	for _, password := range []string{"pass_tes", "pass_test ", "Pass_test", ""} {
		_, err := f.gate.Authenticate(context.Background(), "user_test", password)
		require.ErrorIs(t, err, ierrors.ErrInvalidCredentials)
	}
}

func TestAttachAndResolve(t *testing.T) {
	f := setupGateFixture(t)

	sessionID, err := f.gate.Attach(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	userID, ok := f.gate.Resolve(context.Background(), sessionID)
	require.True(t, ok)
	require.Equal(t, "user-1", userID)
}

func TestResolveUnknownSession(t *testing.T) {
	f := setupGateFixture(t)

	_, ok := f.gate.Resolve(context.Background(), "no-such-session")
	require.False(t, ok)

	_, ok = f.gate.Resolve(context.Background(), "")
	require.False(t, ok)
}

func TestResolveExpiredSession(t *testing.T) {
	f := setupGateFixture(t)

	sessionID, err := f.gate.Attach(context.Background(), "user-1")
	require.NoError(t, err)

	f.now = f.now.Add(gateTestTTL + time.Minute)

	_, ok := f.gate.Resolve(context.Background(), sessionID)
	require.False(t, ok)

	// The expired session is deleted on read, so it stays gone even if
	// the clock were to move back
	f.now = f.now.Add(-2 * gateTestTTL)
	_, ok = f.gate.Resolve(context.Background(), sessionID)
	require.False(t, ok)
}

func TestClear(t *testing.T) {
	f := setupGateFixture(t)

	sessionID, err := f.gate.Attach(context.Background(), "user-1")
	require.NoError(t, err)

	require.NoError(t, f.gate.Clear(context.Background(), sessionID))
	_, ok := f.gate.Resolve(context.Background(), sessionID)
	require.False(t, ok)

	// Clearing again, or clearing garbage, still succeeds
	require.NoError(t, f.gate.Clear(context.Background(), sessionID))
	require.NoError(t, f.gate.Clear(context.Background(), ""))
	require.NoError(t, f.gate.Clear(context.Background(), "no-such-session"))
}

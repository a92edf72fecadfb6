package fakeuserrepo_test

import (
	"testing"

	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/resauth/go-auth-server/users"
	fakeuserrepo "github.com/resauth/go-auth-server/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestUpsertRejectsInvalidUsernames(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	for _, username := range []string{"", "   ", "user test", "user\ttest"} {
		err := repo.Upsert(&users.User{Username: username, Password: "pass_test"})
		require.ErrorIs(t, err, ierrors.ErrInvalidUsername)
	}

	_, err := repo.GetByUsername("user test")
	require.ErrorIs(t, err, ierrors.ErrUserNotFound)
}

func TestUpsertAssignsIDAndStores(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	user := &users.User{Username: "user_test", Password: "pass_test"}
	require.NoError(t, repo.Upsert(user))
	require.NotEmpty(t, user.ID)

	found, err := repo.GetByUsername("user_test")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)
}

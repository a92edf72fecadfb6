package permissions_test

import (
	"testing"

	"github.com/resauth/go-auth-server/permissions"
	"github.com/stretchr/testify/require"
)

func TestLinkAppToUser(t *testing.T) {
	store := permissions.NewStore()

	require.False(t, store.IsAppLinkedToUser("user-1", "1"))

	store.LinkAppToUser("user-1", "1")
	require.True(t, store.IsAppLinkedToUser("user-1", "1"))
	require.False(t, store.IsAppLinkedToUser("user-1", "2"))
	require.False(t, store.IsAppLinkedToUser("user-2", "1"))
}

func TestLinkResourceToApp(t *testing.T) {
	store := permissions.NewStore()

	require.False(t, store.IsResourceLinkedToApp("1", "1"))

	store.LinkResourceToApp("1", "1")
	require.True(t, store.IsResourceLinkedToApp("1", "1"))
	require.False(t, store.IsResourceLinkedToApp("2", "1"))
	require.False(t, store.IsResourceLinkedToApp("1", "2"))
}

func TestLinkingIsIdempotent(t *testing.T) {
	store := permissions.NewStore()

	store.LinkAppToUser("user-1", "1")
	store.LinkAppToUser("user-1", "1")
	require.Equal(t, []string{"1"}, store.AppsForUser("user-1"))

	store.LinkResourceToApp("1", "1")
	store.LinkResourceToApp("1", "1")
	require.Equal(t, []string{"1"}, store.ResourcesForApp("1"))
}

func TestUnlinkAppFromUser(t *testing.T) {
	store := permissions.NewStore()

	store.LinkAppToUser("user-1", "1")
	store.UnlinkAppFromUser("user-1", "1")
	require.False(t, store.IsAppLinkedToUser("user-1", "1"))

	// Unlinking an absent link is a no-op
	store.UnlinkAppFromUser("user-1", "1")
	store.UnlinkAppFromUser("user-9", "9")
}

func TestUnlinkResourceFromApp(t *testing.T) {
	store := permissions.NewStore()

	store.LinkResourceToApp("1", "1")
	store.UnlinkResourceFromApp("1", "1")
	require.False(t, store.IsResourceLinkedToApp("1", "1"))

	store.UnlinkResourceFromApp("9", "9")
}

func TestAppsForUserSorted(t *testing.T) {
	store := permissions.NewStore()

	store.LinkAppToUser("user-1", "3")
	store.LinkAppToUser("user-1", "1")
	store.LinkAppToUser("user-1", "2")
	store.LinkAppToUser("user-2", "9")

	require.Equal(t, []string{"1", "2", "3"}, store.AppsForUser("user-1"))
	require.Equal(t, []string{"9"}, store.AppsForUser("user-2"))
	require.Empty(t, store.AppsForUser("user-3"))
}

func TestResourcesForAppSorted(t *testing.T) {
	store := permissions.NewStore()

	store.LinkResourceToApp("2", "1")
	store.LinkResourceToApp("1", "1")

	require.Equal(t, []string{"1", "2"}, store.ResourcesForApp("1"))
	require.Empty(t, store.ResourcesForApp("2"))
}

func TestAppNamesForUser(t *testing.T) {
	store := permissions.NewStore()

	appNames := map[string]string{
		"1": "App1",
		"2": "App2",
		"3": "App3",
	}
	resolve := func(appID string) (string, bool) {
		name, ok := appNames[appID]
		return name, ok
	}

	store.LinkAppToUser("user-1", "3")
	store.LinkAppToUser("user-1", "1")
	store.LinkAppToUser("user-2", "2")

	require.Equal(t, []string{"App1", "App3"}, store.AppNamesForUser("user-1", resolve))
	require.Equal(t, []string{"App2"}, store.AppNamesForUser("user-2", resolve))
	require.Empty(t, store.AppNamesForUser("user-3", resolve))
}

func TestAppNamesForUserSkipsUnresolvableApps(t *testing.T) {
	store := permissions.NewStore()

	store.LinkAppToUser("user-1", "1")
	store.LinkAppToUser("user-1", "deleted-app")

	resolve := func(appID string) (string, bool) {
		if appID == "1" {
			return "App1", true
		}
		return "", false
	}
	require.Equal(t, []string{"App1"}, store.AppNamesForUser("user-1", resolve))
}

func TestLinksAreIndependentPerDirection(t *testing.T) {
	store := permissions.NewStore()

	// A user->app link says nothing about app->resource and vice versa
	store.LinkAppToUser("user-1", "1")
	require.False(t, store.IsResourceLinkedToApp("1", "1"))

	store.LinkResourceToApp("1", "2")
	require.False(t, store.IsAppLinkedToUser("user-1", "2"))
}

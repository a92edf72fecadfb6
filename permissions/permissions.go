package permissions

import (
	"sort"
	"sync"
)

// Checker is the flow engine's read view of the link store: the two
// relationship questions that gate the authorization flow, both O(1)
// index lookups, plus the name listing shown on the consent page.
type Checker interface {
	IsAppLinkedToUser(userID, appID string) bool
	IsResourceLinkedToApp(resourceID, appID string) bool
	AppNamesForUser(userID string, resolve AppNameResolver) []string
}

// AppNameResolver maps an app id to its display name. A false return
// skips the app.
type AppNameResolver func(appID string) (string, bool)

// Store holds the user<->app and app<->resource many-to-many links as
// bidirectional map indexes. Provisioning writes links; the flow engine
// only reads them through Checker.
type Store struct {
	mu sync.RWMutex

	appsByUser map[string]map[string]struct{} // userID -> appIDs
	usersByApp map[string]map[string]struct{} // appID -> userIDs
	resByApp   map[string]map[string]struct{} // appID -> resourceIDs
	appsByRes  map[string]map[string]struct{} // resourceID -> appIDs
}

var _ Checker = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		appsByUser: make(map[string]map[string]struct{}),
		usersByApp: make(map[string]map[string]struct{}),
		resByApp:   make(map[string]map[string]struct{}),
		appsByRes:  make(map[string]map[string]struct{}),
	}
}

// LinkAppToUser records that the user has a trust link with the app.
// Idempotent.
func (s *Store) LinkAppToUser(userID, appID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addLink(s.appsByUser, userID, appID)
	addLink(s.usersByApp, appID, userID)
}

// UnlinkAppFromUser removes the trust link. Removing an absent link is a no-op.
func (s *Store) UnlinkAppFromUser(userID, appID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removeLink(s.appsByUser, userID, appID)
	removeLink(s.usersByApp, appID, userID)
}

// LinkResourceToApp records that the app may be granted the resource.
// Idempotent.
func (s *Store) LinkResourceToApp(resourceID, appID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addLink(s.resByApp, appID, resourceID)
	addLink(s.appsByRes, resourceID, appID)
}

// UnlinkResourceFromApp removes the resource link. No-op when absent.
func (s *Store) UnlinkResourceFromApp(resourceID, appID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removeLink(s.resByApp, appID, resourceID)
	removeLink(s.appsByRes, resourceID, appID)
}

func (s *Store) IsAppLinkedToUser(userID, appID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.appsByUser[userID][appID]
	return ok
}

func (s *Store) IsResourceLinkedToApp(resourceID, appID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.resByApp[appID][resourceID]
	return ok
}

// AppsForUser returns the ids of all apps linked to the user, sorted.
func (s *Store) AppsForUser(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.appsByUser[userID])
}

// AppNamesForUser returns the display names of all apps linked to the
// user, sorted by name. Apps the resolver cannot name are skipped.
func (s *Store) AppNamesForUser(userID string, resolve AppNameResolver) []string {
	ids := s.AppsForUser(userID)
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := resolve(id); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ResourcesForApp returns the ids of all resources linked to the app, sorted.
func (s *Store) ResourcesForApp(appID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.resByApp[appID])
}

func addLink(index map[string]map[string]struct{}, from, to string) {
	set, ok := index[from]
	if !ok {
		set = make(map[string]struct{})
		index[from] = set
	}
	set[to] = struct{}{}
}

func removeLink(index map[string]map[string]struct{}, from, to string) {
	set, ok := index[from]
	if !ok {
		return
	}
	delete(set, to)
	if len(set) == 0 {
		delete(index, from)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

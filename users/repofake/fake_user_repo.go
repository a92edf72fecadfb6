package fakeuserrepo

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/resauth/go-auth-server/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users       map[string]*users.User
	usernameIds map[string]string // username to user id
	lock        sync.RWMutex
}

func NewFakeUserRepo() users.Repo {
	return &FakeUserRepo{
		users:       make(map[string]*users.User),
		usernameIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Upsert(user *users.User) error {
	if !users.ValidateUsername(user.Username) {
		return ierrors.ErrInvalidUsername
	}

	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	ur.users[user.ID] = user
	ur.usernameIds[user.Username] = user.ID
	return nil
}

func (ur *FakeUserRepo) Delete(username string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	userID, ok := ur.usernameIds[username]
	if !ok {
		return ierrors.ErrNotFound
	}
	delete(ur.usernameIds, username)
	delete(ur.users, userID)
	return nil
}

func (ur *FakeUserRepo) GetByUsername(username string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userID, ok := ur.usernameIds[username]
	if !ok {
		return nil, ierrors.ErrUserNotFound
	}
	return ur.users[userID], nil
}

func (ur *FakeUserRepo) GetByID(id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	if _, ok := ur.users[id]; !ok {
		return nil, ierrors.ErrUserNotFound
	}
	return ur.users[id], nil
}

func (ur *FakeUserRepo) List(offset, limit int) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		userList = append(userList, v)
	}

	sort.Slice(userList, func(i, j int) bool {
		return userList[i].ID < userList[j].ID
	})

	if offset >= len(userList) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(userList) {
		end = len(userList)
	}
	return userList[offset:end], nil
}

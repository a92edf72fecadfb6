package fakeapprepo

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/resauth/go-auth-server/apps"
	ierrors "github.com/resauth/go-auth-server/internal/errors"
)

var _ apps.Repo = (*FakeAppRepo)(nil)

type FakeAppRepo struct {
	apps map[string]*apps.App
	lock sync.RWMutex
}

func NewFakeAppRepo() apps.Repo {
	return &FakeAppRepo{
		apps: make(map[string]*apps.App),
	}
}

func (ar *FakeAppRepo) Upsert(app *apps.App) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	ar.apps[app.ID] = app
	return nil
}

func (ar *FakeAppRepo) Delete(appID string) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	if _, ok := ar.apps[appID]; !ok {
		return ierrors.ErrNotFound
	}
	delete(ar.apps, appID)
	return nil
}

func (ar *FakeAppRepo) Get(appID string) (*apps.App, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	app, ok := ar.apps[appID]
	if !ok {
		return nil, ierrors.ErrClientNotFound
	}
	return app, nil
}

func (ar *FakeAppRepo) List(offset, limit int) ([]*apps.App, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	appList := make([]*apps.App, 0, len(ar.apps))
	for _, v := range ar.apps {
		appList = append(appList, v)
	}

	sort.Slice(appList, func(i, j int) bool {
		return appList[i].ID < appList[j].ID
	})

	if offset >= len(appList) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(appList) {
		end = len(appList)
	}
	return appList[offset:end], nil
}

package fakeresourcerepo

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/resauth/go-auth-server/resources"
)

var _ resources.Repo = (*FakeResourceRepo)(nil)

type FakeResourceRepo struct {
	resources map[string]*resources.Resource
	lock      sync.RWMutex
}

func NewFakeResourceRepo() resources.Repo {
	return &FakeResourceRepo{
		resources: make(map[string]*resources.Resource),
	}
}

func (rr *FakeResourceRepo) Upsert(resource *resources.Resource) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	if resource.ID == "" {
		resource.ID = uuid.New().String()
	}
	rr.resources[resource.ID] = resource
	return nil
}

func (rr *FakeResourceRepo) Delete(resourceID string) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	if _, ok := rr.resources[resourceID]; !ok {
		return ierrors.ErrNotFound
	}
	delete(rr.resources, resourceID)
	return nil
}

func (rr *FakeResourceRepo) Get(resourceID string) (*resources.Resource, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	resource, ok := rr.resources[resourceID]
	if !ok {
		return nil, ierrors.ErrNotFound
	}
	return resource, nil
}

func (rr *FakeResourceRepo) List(offset, limit int) ([]*resources.Resource, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	resourceList := make([]*resources.Resource, 0, len(rr.resources))
	for _, v := range rr.resources {
		resourceList = append(resourceList, v)
	}

	sort.Slice(resourceList, func(i, j int) bool {
		return resourceList[i].ID < resourceList[j].ID
	})

	if offset >= len(resourceList) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(resourceList) {
		end = len(resourceList)
	}
	return resourceList[offset:end], nil
}

package faketokenrepo

import (
	"sync"
	"time"

	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/resauth/go-auth-server/token"
)

var _ token.CodeRepo = (*FakeCodeRepo)(nil)

type FakeCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*token.AuthorizationCode
}

func NewFakeCodeRepo() *FakeCodeRepo {
	return &FakeCodeRepo{
		codes: make(map[string]*token.AuthorizationCode),
	}
}

// Create stores the code, superseding any prior live code issued for the
// same (user, app, resource, state) tuple.
func (r *FakeCodeRepo) Create(code *token.AuthorizationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for value, existing := range r.codes {
		if value != code.Code && existing.SameTuple(*code) && !existing.Used {
			delete(r.codes, value)
		}
	}

	stored := *code
	r.codes[code.Code] = &stored
	return nil
}

func (r *FakeCodeRepo) Get(code string) (*token.AuthorizationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.codes[code]
	if !ok {
		return nil, ierrors.ErrCodeNotFound
	}
	copied := *record
	return &copied, nil
}

// Consume transitions the code from unused to used under the store lock.
// Concurrent redemptions of the same code see exactly one success; the
// losers get ErrCodeAlreadyUsed.
func (r *FakeCodeRepo) Consume(code string, now time.Time) (*token.AuthorizationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.codes[code]
	if !ok {
		return nil, ierrors.ErrCodeNotFound
	}
	if record.Used {
		return nil, ierrors.ErrCodeAlreadyUsed
	}
	if record.Expired(now) {
		return nil, ierrors.ErrCodeExpired
	}

	record.Used = true
	copied := *record
	return &copied, nil
}

func (r *FakeCodeRepo) DeleteExpired(now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for value, record := range r.codes {
		if record.Expired(now) {
			delete(r.codes, value)
			deleted++
		}
	}
	return deleted, nil
}

package faketokenrepo

import (
	"sync"

	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/resauth/go-auth-server/token"
)

var _ token.TokenRepo = (*FakeTokenRepo)(nil)

type FakeTokenRepo struct {
	mu     sync.RWMutex
	tokens map[string]*token.AccessToken
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		tokens: make(map[string]*token.AccessToken),
	}
}

func (r *FakeTokenRepo) Create(tok *token.AccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *tok
	r.tokens[tok.Token] = &stored
	return nil
}

func (r *FakeTokenRepo) Get(tokenValue string) (*token.AccessToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.tokens[tokenValue]
	if !ok {
		return nil, ierrors.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *FakeTokenRepo) Delete(tokenValue string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, tokenValue)
	return nil
}

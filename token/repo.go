package token

import "time"

// CodeRepo stores authorization codes.
//
// Create must supersede any prior live code for the same
// (user, app, resource, state) tuple. Consume must be a single atomic
// read-modify-write: of any number of concurrent Consume calls for the
// same code, exactly one succeeds and the rest fail with
// ErrCodeAlreadyUsed. A separate Get-then-MarkUsed pair would reopen
// that race, so no such pair is exposed.
type CodeRepo interface {
	Create(code *AuthorizationCode) error
	Get(code string) (*AuthorizationCode, error)
	Consume(code string, now time.Time) (*AuthorizationCode, error)
	DeleteExpired(now time.Time) (int, error)
}

// TokenRepo stores issued access tokens keyed by their opaque value.
type TokenRepo interface {
	Create(token *AccessToken) error
	Get(tokenValue string) (*AccessToken, error)
	Delete(tokenValue string) error
}

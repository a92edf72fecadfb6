package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const codeGenerationLength = 32

// Issuer mints authorization codes and access tokens and enforces the
// one-time-use discipline on codes. Values come from crypto/rand and are
// opaque to everything outside this package.
type Issuer struct {
	codes   CodeRepo
	tokens  TokenRepo
	codeTTL time.Duration
	nowTime func() time.Time // injectable for testing
}

// IssuerOption modifies an Issuer instance.
type IssuerOption func(*Issuer)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowTime = nowFunc
	}
}

func NewIssuer(codeRepo CodeRepo, tokenRepo TokenRepo, codeTTL time.Duration, options ...IssuerOption) (*Issuer, error) {
	if codeRepo == nil {
		return nil, errors.New("[NewIssuer] code repo is required")
	}
	if tokenRepo == nil {
		return nil, errors.New("[NewIssuer] token repo is required")
	}

	issuer := &Issuer{
		codes:   codeRepo,
		tokens:  tokenRepo,
		codeTTL: codeTTL,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(issuer)
	}
	return issuer, nil
}

// IssueCodeRequest carries everything an authorization code is bound to.
type IssueCodeRequest struct {
	UserID      string
	AppID       string
	ResourceID  string
	RedirectURI string
	Scope       string
	State       string
}

// IssueCode mints a new authorization code for the grant decision. Any
// prior live code for the same (user, app, resource, state) tuple is
// superseded by the store.
func (i *Issuer) IssueCode(_ context.Context, req IssueCodeRequest) (*AuthorizationCode, error) {
	value, err := generateRandomString(codeGenerationLength)
	if err != nil {
		return nil, errors.Wrap(err, "[Issuer.IssueCode] generateRandomString")
	}

	now := i.nowTime()
	code := &AuthorizationCode{
		Code:        value,
		UserID:      req.UserID,
		AppID:       req.AppID,
		ResourceID:  req.ResourceID,
		RedirectURI: req.RedirectURI,
		Scope:       req.Scope,
		State:       req.State,
		CreatedAt:   now,
		ExpiresAt:   now.Add(i.codeTTL),
	}
	if err := i.codes.Create(code); err != nil {
		return nil, errors.Wrap(err, "[Issuer.IssueCode] codes.Create")
	}
	return code, nil
}

// Redeem consumes the code exactly once. The store's Consume does the
// whole unused->used transition atomically, so a replayed code or a
// concurrent second redemption fails with ErrCodeAlreadyUsed.
func (i *Issuer) Redeem(_ context.Context, code string) (*AuthorizationCode, error) {
	return i.codes.Consume(code, i.nowTime())
}

// IssueToken mints the access token for a freshly redeemed code.
func (i *Issuer) IssueToken(_ context.Context, code *AuthorizationCode) (*AccessToken, error) {
	value, err := generateRandomString(codeGenerationLength)
	if err != nil {
		return nil, errors.Wrap(err, "[Issuer.IssueToken] generateRandomString")
	}

	tok := &AccessToken{
		Token:      value,
		AppID:      code.AppID,
		ResourceID: code.ResourceID,
		Scope:      code.Scope,
		CreatedAt:  i.nowTime(),
	}
	if err := i.tokens.Create(tok); err != nil {
		return nil, errors.Wrap(err, "[Issuer.IssueToken] tokens.Create")
	}
	return tok, nil
}

// PurgeExpired removes expired codes. The janitor loop in main calls this
// on an interval; used codes age out with their expiry.
func (i *Issuer) PurgeExpired(_ context.Context) (int, error) {
	deleted, err := i.codes.DeleteExpired(i.nowTime())
	if err != nil {
		return 0, errors.Wrap(err, "[Issuer.PurgeExpired] codes.DeleteExpired")
	}
	if deleted > 0 {
		log.Debug().Int("deleted", deleted).Msg("purged expired authorization codes")
	}
	return deleted, nil
}

// generateRandomString creates a random base64url string of length bytes
// of entropy.
func generateRandomString(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

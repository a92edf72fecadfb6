package auth

import (
	"net/url"

	ierrors "github.com/resauth/go-auth-server/internal/errors"
)

// ResponseType is the OAuth2 response_type parameter. Only the
// authorization-code response is supported.
type ResponseType string

const CodeResponseType ResponseType = "code"

// GrantedYes is the only consent answer that issues a code. Any other
// non-empty answer is a denial.
const GrantedYes = "yes"

// AuthorizationParameters is the resumable-request value object for an
// authorize request. The login step carries it through unchanged so a
// successful login resumes the exact request the user started with,
// instead of re-parsing a redirect target string.
type AuthorizationParameters struct {
	ResponseType ResponseType
	ClientID     string
	ResourceID   string
	RedirectURI  string
	State        string
	Scope        string
	Granted      string
}

// ParseAuthorizationParameters extracts the authorize parameters from a
// query string.
func ParseAuthorizationParameters(query url.Values) *AuthorizationParameters {
	return &AuthorizationParameters{
		ResponseType: ResponseType(query.Get("response_type")),
		ClientID:     query.Get("client_id"),
		ResourceID:   query.Get("resource_id"),
		RedirectURI:  query.Get("redirect_uri"),
		State:        query.Get("state"),
		Scope:        query.Get("scope"),
		Granted:      query.Get("granted"),
	}
}

// Values rebuilds the query string for the authorize continuation.
// Only set fields appear, so the round trip stays faithful.
func (p *AuthorizationParameters) Values() url.Values {
	values := url.Values{}
	if p.ResponseType != "" {
		values.Set("response_type", string(p.ResponseType))
	}
	if p.ClientID != "" {
		values.Set("client_id", p.ClientID)
	}
	if p.ResourceID != "" {
		values.Set("resource_id", p.ResourceID)
	}
	if p.RedirectURI != "" {
		values.Set("redirect_uri", p.RedirectURI)
	}
	if p.State != "" {
		values.Set("state", p.State)
	}
	if p.Scope != "" {
		values.Set("scope", p.Scope)
	}
	if p.Granted != "" {
		values.Set("granted", p.Granted)
	}
	return values
}

// AuthorizePath returns the relative authorize URL carrying these
// parameters, used as the redirect target after a successful login.
func (p *AuthorizationParameters) AuthorizePath() string {
	return "/authorize?" + p.Values().Encode()
}

// ValidateResponseType rejects anything but the code response type.
func (p *AuthorizationParameters) ValidateResponseType() error {
	if p.ResponseType != CodeResponseType {
		return ierrors.ErrUnsupportedResponseType
	}
	return nil
}

package token

import "time"

// AuthorizationCode is the ephemeral, single-use credential handed to an
// app after consent. It stays bound to everything the grant decision saw:
// user, app, resource, redirect target, scope and the state echo.
type AuthorizationCode struct {
	Code        string
	UserID      string
	AppID       string
	ResourceID  string
	RedirectURI string
	Scope       string
	State       string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Used        bool
}

// Expired reports whether the code has passed its expiry at the given time.
func (c AuthorizationCode) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Live reports whether the code can still be redeemed at the given time.
func (c AuthorizationCode) Live(now time.Time) bool {
	return !c.Used && !c.Expired(now)
}

// SameTuple reports whether the other code was issued for the same
// (user, app, resource, state) tuple. At most one live code exists per
// tuple; issuing a new one supersedes the prior.
func (c AuthorizationCode) SameTuple(other AuthorizationCode) bool {
	return c.UserID == other.UserID &&
		c.AppID == other.AppID &&
		c.ResourceID == other.ResourceID &&
		c.State == other.State
}

// AccessToken is the opaque credential returned by a successful code
// exchange. It grants the app access to the resource under the scope.
type AccessToken struct {
	Token      string    `json:"access_token"`
	AppID      string    `json:"-"`
	ResourceID string    `json:"resource"`
	Scope      string    `json:"scope,omitempty"`
	CreatedAt  time.Time `json:"-"`
}

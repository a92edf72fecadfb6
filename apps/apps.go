package apps

// App is a third-party application (OAuth client) requesting access to a
// resource on a user's behalf. Identified externally by an opaque client id.
type App struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Secret string `json:"secret,omitempty"` // may be empty; such an app can never complete a token exchange
}

// CheckSecret reports whether the presented secret matches the stored one.
// An app without a stored secret matches nothing, so a misconfigured app
// fails the token exchange instead of passing with an empty string.
func (a *App) CheckSecret(secret string) bool {
	if a == nil || a.Secret == "" {
		return false
	}
	return a.Secret == secret
}

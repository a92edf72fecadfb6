package users

import (
	"strings"
	"time"
)

// User is a resource owner. Credentials are matched by exact equality
// against Password; account provisioning owns creation and the flow
// engine never mutates a user beyond session attachment.
type User struct {
	ID        string    `json:"id,omitempty"`       // Unique identifier for the user
	Username  string    `json:"username,omitempty"` // Unique username
	Password  string    `json:"-"`                  // Credential secret - never serialize
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CheckPassword reports whether the supplied credential matches exactly.
func (u *User) CheckPassword(password string) bool {
	if u == nil {
		return false
	}
	return u.Password == password
}

// ValidateUsername rejects usernames that are empty or contain whitespace.
func ValidateUsername(username string) bool {
	username = strings.TrimSpace(username)
	return username != "" && !strings.ContainsAny(username, " \t\n\r")
}

package sessions

import "context"

type contextKey string

var userIDContextKey = contextKey("user_id")

// ContextWithUserID injects the authenticated user id into the context.
// The HTTP session middleware uses this; tests use it to fake a login.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext retrieves the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

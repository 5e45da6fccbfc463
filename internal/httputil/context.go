package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey contextKey = "userID"
	adminKey  contextKey = "isAdmin"
)

// WithUserID adds userID to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves userID from context, returns empty string if not found
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// WithAdmin marks the request as coming from an editor allowed to see drafts
func WithAdmin(r *http.Request, isAdmin bool) *http.Request {
	ctx := context.WithValue(r.Context(), adminKey, isAdmin)
	return r.WithContext(ctx)
}

// IsAdmin reports whether WithAdmin(r, true) was applied
func IsAdmin(r *http.Request) bool {
	isAdmin, _ := r.Context().Value(adminKey).(bool)
	return isAdmin
}

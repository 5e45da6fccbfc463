package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued by the identity provider (Supabase Auth).
// Only the fields the API reads are decoded.
type Claims struct {
	jwt.RegisteredClaims
	Email       string                 `json:"email"`
	Role        string                 `json:"role"` // "authenticated" or "anon"
	AppMetadata map[string]interface{} `json:"app_metadata"`
	SessionID   string                 `json:"session_id"`
	IsAnonymous bool                   `json:"is_anonymous"`
}

// GetUserID returns the subject claim, which is also the author id
func (c *Claims) GetUserID() string {
	return c.Subject
}

// HasAppRole reports whether app_metadata.role equals role.
// app_metadata is only writable server-side, so it is safe to trust.
func (c *Claims) HasAppRole(role string) bool {
	if role == "" || c.AppMetadata == nil {
		return false
	}
	v, ok := c.AppMetadata["role"].(string)
	return ok && v == role
}

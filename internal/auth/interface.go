package auth

import "newsdesk/internal/domain/models"

// JWTVerifier validates bearer tokens for the write surface.
type JWTVerifier interface {
	// VerifyToken returns the parsed claims, or domain.ErrUnauthorized for any
	// invalid, expired or anonymous token.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases resources held by the verifier
	Close() error
}

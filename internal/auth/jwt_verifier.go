package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"newsdesk/internal/domain"
	"newsdesk/internal/domain/models"
)

// allowedAlgorithms blocks algorithm confusion (e.g. HS256 signed with a public key)
var allowedAlgorithms = []string{"RS256", "ES256"}

// KeyfuncVerifier implements JWTVerifier on top of a jwt.Keyfunc
type KeyfuncVerifier struct {
	keyFunc jwt.Keyfunc
	logger  *slog.Logger
}

// NewJWTVerifier fetches public keys from a JWKS endpoint.
// keyfunc caches the key set and refreshes it on unknown kid.
func NewJWTVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (*KeyfuncVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)
	return NewKeyfuncVerifier(jwks.Keyfunc, logger), nil
}

// NewKeyfuncVerifier verifies tokens with an explicit key lookup
func NewKeyfuncVerifier(keyFunc jwt.Keyfunc, logger *slog.Logger) *KeyfuncVerifier {
	return &KeyfuncVerifier{keyFunc: keyFunc, logger: logger}
}

// VerifyToken validates signature, expiry and algorithm, then requires an
// authenticated, non-anonymous subject.
func (v *KeyfuncVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}
	if claims.Role != "authenticated" || claims.IsAnonymous {
		v.logger.Warn("token has invalid role",
			"role", claims.Role,
			"anonymous", claims.IsAnonymous,
			"user_id", claims.Subject,
		)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close is a no-op; keyfunc v3 owns its refresh goroutine through the ctx
// passed to NewJWTVerifier.
func (v *KeyfuncVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}

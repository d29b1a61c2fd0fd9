package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/teclegacy/marketplace-backend/pkg/config"
)

// Claims is the subset of the identity provider's access token this service
// relies on. Token issuance lives in the identity provider; we only verify.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

type accessClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ParseAccessToken verifies the bearer token signature and expiry and extracts
// the user identity from the subject claim.
func ParseAccessToken(cfg config.JWTConfig, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid access token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}

	return &Claims{UserID: userID, Email: claims.Email}, nil
}

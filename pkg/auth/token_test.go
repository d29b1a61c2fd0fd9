package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teclegacy/marketplace-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "teclegacy-identity"}
}

func signToken(t *testing.T, cfg config.JWTConfig, subject string, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email: "buyer@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString([]byte(cfg.Secret))
	require.NoError(t, err)
	return signed
}

func TestParseAccessToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	userID := uuid.New()
	raw := signToken(t, cfg, userID.String(), time.Now().Add(time.Hour))

	claims, err := ParseAccessToken(cfg, raw)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "buyer@example.com", claims.Email)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	raw := signToken(t, cfg, uuid.NewString(), time.Now().Add(-time.Minute))

	_, err := ParseAccessToken(cfg, raw)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	raw := signToken(t, config.JWTConfig{Secret: "other", Issuer: cfg.Issuer}, uuid.NewString(), time.Now().Add(time.Hour))

	_, err := ParseAccessToken(cfg, raw)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsNonUUIDSubject(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	raw := signToken(t, cfg, "not-a-uuid", time.Now().Add(time.Hour))

	_, err := ParseAccessToken(cfg, raw)
	assert.Error(t, err)
}

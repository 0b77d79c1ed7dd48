package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dchandra05/sprout-api/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-secret-key-that-is-32-chars!!",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 7 * 24 * 60,
	}
}

func newTestService(t *testing.T) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	cfg.JWTSecret = "tooshort"
	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()
	learnerID := uuid.New()

	token, err := svc.GenerateToken(ctx, learnerID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, learnerID, claims.LearnerID)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, learnerID.String(), claims.Subject)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()
	learnerID := uuid.New()

	token, err := svc.GenerateRefreshToken(ctx, learnerID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, learnerID, claims.LearnerID)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestValidateTokenRejectsWrongType(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()
	learnerID := uuid.New()

	refresh, err := svc.GenerateRefreshToken(ctx, learnerID)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	access, err := svc.GenerateToken(ctx, learnerID)
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	_, err := svc.ValidateToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()
	learnerID := uuid.New()

	// Issue a token in the past, then validate with the real clock.
	issuedAt := time.Now().Add(-24 * time.Hour)
	svc.timeFunc = func() time.Time { return issuedAt }
	token, err := svc.GenerateToken(ctx, learnerID)
	require.NoError(t, err)

	svc.timeFunc = time.Now
	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsTamperedSignature(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	learnerID := uuid.New()

	svc := newTestService(t)
	token, err := svc.GenerateToken(ctx, learnerID)
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "a-different-secret-also-32-chars!!!"
	other, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	_, err = other.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcryptHasherAndVerifier(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(4)
	verifier := NewBcryptVerifier()

	hashed, err := hasher.Hash("correct-horse-battery")
	require.NoError(t, err)
	require.NotEqual(t, "correct-horse-battery", hashed)

	assert.NoError(t, verifier.Compare(hashed, "correct-horse-battery"))
	assert.Error(t, verifier.Compare(hashed, "wrong-password"))
}

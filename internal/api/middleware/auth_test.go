package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dchandra05/sprout-api/internal/api/middleware"
	"github.com/dchandra05/sprout-api/internal/config"
	"github.com/dchandra05/sprout-api/internal/service/auth"
)

const testJWTSecret = "test-secret-key-thats-long-enough-for-hs256"

func newTestJWTService(t *testing.T, tokenLifetimeMinutes int) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   testJWTSecret,
		TokenLifetimeMinutes:        tokenLifetimeMinutes,
		RefreshTokenLifetimeMinutes: tokenLifetimeMinutes * 24,
	})
	require.NoError(t, err)
	return svc
}

// echoLearnerHandler writes the learner ID from the context so tests can
// verify the middleware propagated it.
func echoLearnerHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		learnerID, ok := middleware.GetLearnerID(r)
		require.True(t, ok, "learner ID missing from authenticated request context")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(learnerID.String()))
	})
}

func TestAuthenticateValidToken(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t, 60)
	learnerID := uuid.New()
	token, err := jwtService.GenerateToken(context.Background(), learnerID)
	require.NoError(t, err)

	mw := middleware.NewAuthMiddleware(jwtService)
	handler := mw.Authenticate(echoLearnerHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, learnerID.String(), rec.Body.String())
}

func TestAuthenticateMissingHeader(t *testing.T) {
	t.Parallel()

	mw := middleware.NewAuthMiddleware(newTestJWTService(t, 60))
	handler := mw.Authenticate(echoLearnerHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization header required")
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	t.Parallel()

	mw := middleware.NewAuthMiddleware(newTestJWTService(t, 60))
	handler := mw.Authenticate(echoLearnerHandler(t))

	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", "some-token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"too many parts", "Bearer a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid authorization format")
		})
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	t.Parallel()

	// Negative lifetime puts the expiry well past the validator's
	// allowed clock skew.
	expiredService := newTestJWTService(t, -10)
	token, err := expiredService.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	mw := middleware.NewAuthMiddleware(newTestJWTService(t, 60))
	handler := mw.Authenticate(echoLearnerHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Token expired", body["error"])
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t, 60)
	refreshToken, err := jwtService.GenerateRefreshToken(context.Background(), uuid.New())
	require.NoError(t, err)

	mw := middleware.NewAuthMiddleware(jwtService)
	handler := mw.Authenticate(echoLearnerHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+refreshToken)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestAuthenticateTamperedToken(t *testing.T) {
	t.Parallel()

	otherService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "a-completely-different-32-char-secret!!",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	})
	require.NoError(t, err)
	token, err := otherService.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	mw := middleware.NewAuthMiddleware(newTestJWTService(t, 60))
	handler := mw.Authenticate(echoLearnerHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

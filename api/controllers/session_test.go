package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

var sessionJWT = config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}

type recordingSessions struct {
	revoked   []string
	rotated   []string
	presented string
	nextID    string
	nextTok   string
	err       error
}

func (s *recordingSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	s.rotated = append(s.rotated, oldAccessID)
	s.presented = provided
	return s.nextID, s.nextTok, s.err
}

func (s *recordingSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return s.err
}

// bearer mints a token issued at issued, so callers can hand in an expired one.
func bearer(t *testing.T, issued time.Time) (string, string) {
	t.Helper()
	jti := session.NewAccessID()
	token, err := auth.MintAccessToken(sessionJWT, issued, auth.AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer, JTI: jti})
	require.NoError(t, err)
	return "Bearer " + token, jti
}

func TestAuthLogoutRevokesPresentedSession(t *testing.T) {
	sessions := &recordingSessions{}
	authz, jti := bearer(t, time.Now().Add(-time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", authz)
	rec := httptest.NewRecorder()
	AuthLogout(sessions, sessionJWT, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{jti}, sessions.revoked)
}

func TestAuthLogoutRequiresBearer(t *testing.T) {
	sessions := &recordingSessions{}
	rec := httptest.NewRecorder()
	AuthLogout(sessions, sessionJWT, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, sessions.revoked)
}

func refreshRequestWith(authz, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authz)
	return req
}

func TestAuthRefreshIssuesNewPair(t *testing.T) {
	sessions := &recordingSessions{nextID: "new-jti", nextTok: "new-refresh"}
	authz, jti := bearer(t, time.Now())

	rec := httptest.NewRecorder()
	AuthRefresh(sessions, sessionJWT, nil).ServeHTTP(rec, refreshRequestWith(authz, `{"refresh_token":"old-refresh"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data refreshResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, []string{jti}, sessions.rotated)
	assert.Equal(t, "old-refresh", sessions.presented)
	assert.Equal(t, "new-refresh", envelope.Data.RefreshToken)
	assert.Equal(t, envelope.Data.AccessToken, rec.Header().Get(middleware.TokenHeader))

	claims, err := auth.ParseAccessToken(sessionJWT, envelope.Data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "new-jti", claims.ID)
}

func TestAuthRefreshErrors(t *testing.T) {
	authz, _ := bearer(t, time.Now())
	cases := []struct {
		name   string
		err    error
		body   string
		status int
	}{
		{"reused refresh token", session.ErrInvalidRefreshToken, `{"refresh_token":"stale"}`, http.StatusUnauthorized},
		{"session store down", errors.New("redis: connection refused"), `{"refresh_token":"x"}`, http.StatusServiceUnavailable},
		{"missing refresh token", nil, `{}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			AuthRefresh(&recordingSessions{err: tc.err}, sessionJWT, nil).ServeHTTP(rec, refreshRequestWith(authz, tc.body))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureSession(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	handler := CartSession(time.Hour, false, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return seen, rec
}

func TestCartSessionMintsWhenMissing(t *testing.T) {
	seen, rec := captureSession(t, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(SessionHeader))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestCartSessionPrefersHeaderOverCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionHeader, "header-session")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-session"})

	seen, rec := captureSession(t, req)
	assert.Equal(t, "header-session", seen)
	assert.Equal(t, "header-session", rec.Header().Get(SessionHeader))
}

func TestCartSessionReadsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-session"})

	seen, _ := captureSession(t, req)
	assert.Equal(t, "cookie-session", seen)
}

func TestCartSessionRejectsMalformedIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionHeader, "bad id;with spaces")

	seen, _ := captureSession(t, req)
	assert.NotEqual(t, "bad id;with spaces", seen)
	assert.NotEmpty(t, seen)
}

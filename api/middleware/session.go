package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-Id"
	SessionCookie = "sf_session"
	// TokenHeader carries a freshly minted access token on auth responses.
	TokenHeader = "X-SF-Token"

	maxSessionIDLength = 128
)

// CartSession binds every request to an anonymous cart session. The id is
// read from the X-Session-Id header, then the sf_session cookie, and minted
// when neither carries a usable value. It is echoed back on both channels.
func CartSession(ttl time.Duration, secure bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionIDFromRequest(r)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(SessionHeader, id)
			cookie := &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			}
			if ttl > 0 {
				cookie.MaxAge = int(ttl.Seconds())
			}
			http.SetCookie(w, cookie)

			ctx := WithSessionID(r.Context(), id)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionIDFromRequest(r *http.Request) string {
	if id := cleanSessionID(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return cleanSessionID(c.Value)
	}
	return ""
}

func cleanSessionID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxSessionIDLength {
		return ""
	}
	for _, r := range id {
		if !(r == '-' || r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return ""
		}
	}
	return id
}

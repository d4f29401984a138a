package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// maxAuthBody bounds what the throttle buffers to find the login identity.
const maxAuthBody = 64 << 10

type windowCounter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// ThrottlePolicy caps attempts per client address and per login identity
// within one fixed window. A zero limit disables that dimension.
type ThrottlePolicy struct {
	Name        string
	Window      time.Duration
	PerIP       int
	PerIdentity int
}

func (p ThrottlePolicy) active() bool {
	return p.Window > 0 && (p.PerIP > 0 || p.PerIdentity > 0)
}

// AuthThrottle guards login and register. Counting happens before the handler
// runs, so failed and successful attempts weigh the same.
func AuthThrottle(policy ThrottlePolicy, counter windowCounter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if counter == nil || !policy.active() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.PerIP > 0 {
				ip := clientIP(r)
				if !check(ctx, w, logg, counter, policy, "ip:"+ip, policy.PerIP) {
					return
				}
			}

			if policy.PerIdentity > 0 {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxAuthBody))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if id := loginIdentity(body); id != "" {
					if !check(ctx, w, logg, counter, policy, "id:"+digest(id), policy.PerIdentity) {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// check counts one hit and writes the rejection itself when the window is full.
func check(ctx context.Context, w http.ResponseWriter, logg *logger.Logger, counter windowCounter, policy ThrottlePolicy, subject string, limit int) bool {
	scope := "auth:" + policy.Name + ":" + subject
	ok, hits, err := counter.FixedWindowAllow(ctx, scope, int64(limit), policy.Window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiter unavailable"))
		return false
	}
	if ok {
		return true
	}

	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy": policy.Name,
			"scope":  scope,
			"hits":   hits,
			"limit":  limit,
		}), "auth.throttled")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.Window.Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
	return false
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// loginIdentity picks email, else username. Both share a bucket so switching
// identifier does not reset the count.
func loginIdentity(body []byte) string {
	var creds struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	if json.Unmarshal(body, &creds) != nil {
		return ""
	}
	id := creds.Email
	if strings.TrimSpace(id) == "" {
		id = creds.Username
	}
	return strings.ToLower(strings.TrimSpace(id))
}

func digest(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:8])
}

package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	pkgAuth "github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Auth admits requests carrying a valid bearer token whose access session is
// still live, and binds the token's Actor to the request context.
func Auth(cfg config.JWTConfig, sessions session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actor, err := authenticate(r, cfg, sessions)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			ctx = WithActor(ctx, actor)
			if logg != nil {
				ctx = logg.WithField(logg.WithUserID(ctx, actor.UserID), "actor_role", actor.Role)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, cfg config.JWTConfig, sessions session.AccessSessionChecker) (Actor, error) {
	raw, err := validators.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	claims, err := pkgAuth.ParseAccessToken(cfg, raw)
	if err != nil {
		return Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token has no session")
	}
	if sessions != nil {
		live, err := sessions.HasSession(r.Context(), claims.ID)
		if err != nil {
			return Actor{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check session")
		}
		if !live {
			return Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked or expired")
		}
	}
	return Actor{UserID: claims.UserID.String(), Role: claims.Role}, nil
}

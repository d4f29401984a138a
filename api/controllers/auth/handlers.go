package auth

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type loginFunc func(context.Context, auth.LoginRequest) (*auth.LoginResponse, error)

type registrar interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error)
}

// AuthLogin signs in a customer or an admin by email or username.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return login(svc.Login, logg)
}

// AdminAuthLogin only admits admin accounts.
func AdminAuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return login(svc.AdminLogin, logg)
}

// AuthRegister creates a customer account and signs it straight in.
func AuthRegister(reg auth.RegisterService, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return register(reg, svc.Login, logg)
}

// AdminAuthRegister bootstraps an admin account. The route is not mounted in
// production and the handler refuses there as well.
func AdminAuthRegister(reg auth.AdminRegisterService, svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	inner := register(reg, svc.AdminLogin, logg)
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg == nil || cfg.App.IsProd() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin registration is disabled"))
			return
		}
		inner(w, r)
	}
}

func login(do loginFunc, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Email == "" && body.Username == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"email": "email or username is required"}))
			return
		}

		result, err := do(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, http.StatusOK, result)
	}
}

func register(reg registrar, signIn loginFunc, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := reg.Register(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := signIn(r.Context(), auth.LoginRequest{Email: body.Email, Password: body.Password})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, http.StatusCreated, result)
	}
}

// writeSession mirrors the access token into the response header for clients
// that do not parse the body.
func writeSession(w http.ResponseWriter, status int, result *auth.LoginResponse) {
	w.Header().Set(middleware.TokenHeader, result.AccessToken)
	responses.WriteSuccessStatus(w, status, result)
}

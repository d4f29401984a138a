package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthService struct {
	resp     *auth.LoginResponse
	err      error
	received auth.LoginRequest
	admin    bool
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.received = req
	return s.resp, s.err
}

func (s *stubAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.received = req
	s.admin = true
	return s.resp, s.err
}

type stubAdminRegister struct {
	calls int
}

func (s *stubAdminRegister) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	s.calls++
	return &users.UserDTO{ID: uuid.New(), Email: req.Email, Role: enums.UserRoleAdmin}, nil
}

func loginResponse() *auth.LoginResponse {
	return &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         &users.UserDTO{ID: uuid.New(), Email: "jane@example.com"},
	}
}

func TestAuthLoginByUsername(t *testing.T) {
	svc := &stubAuthService{resp: loginResponse()}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"jane","password":"Secret123!"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(middleware.TokenHeader); got != "access-token" {
		t.Fatalf("expected token header, got %q", got)
	}
	if svc.received.Username != "jane" {
		t.Fatalf("expected username forwarded, got %q", svc.received.Username)
	}
}

func TestAuthLoginRequiresIdentity(t *testing.T) {
	svc := &stubAuthService{resp: loginResponse()}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"password":"Secret123!"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"jane@example.com","password":"wrong-pass"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAdminAuthRegisterBlockedInProd(t *testing.T) {
	reg := &stubAdminRegister{}
	cfg := &config.Config{App: config.AppConfig{Env: "prod"}}
	handler := AdminAuthRegister(reg, &stubAuthService{resp: loginResponse()}, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/admin/register", strings.NewReader(`{"username":"root","email":"root@example.com","password":"Secret123!"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
	if reg.calls != 0 {
		t.Fatalf("expected register not to run in prod")
	}
}

func TestAdminAuthRegisterDev(t *testing.T) {
	reg := &stubAdminRegister{}
	svc := &stubAuthService{resp: loginResponse()}
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	handler := AdminAuthRegister(reg, svc, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/admin/register", strings.NewReader(`{"username":"root","email":"root@example.com","password":"Secret123!"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if reg.calls != 1 || !svc.admin {
		t.Fatalf("expected admin register then admin login, calls=%d admin=%v", reg.calls, svc.admin)
	}
}

type stubRegister struct {
	err      error
	received auth.RegisterRequest
}

func (s *stubRegister) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	s.received = req
	if s.err != nil {
		return nil, s.err
	}
	return &users.UserDTO{ID: uuid.New(), Email: req.Email, Username: req.Username, Role: enums.UserRoleCustomer}, nil
}

func TestAuthRegisterSignsIn(t *testing.T) {
	reg := &stubRegister{}
	svc := &stubAuthService{resp: loginResponse()}
	handler := AuthRegister(reg, svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"Secret123!"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(middleware.TokenHeader) != "access-token" {
		t.Fatalf("expected token header")
	}
	if reg.received.Username != "alice" || svc.received.Email != "alice@example.com" {
		t.Fatalf("expected register then login with the same identity, got %+v / %+v", reg.received, svc.received)
	}
	if svc.admin {
		t.Fatal("customer register must not use admin login")
	}
}

func TestAuthRegisterRejectsInvalidBody(t *testing.T) {
	reg := &stubRegister{}
	handler := AuthRegister(reg, &stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"username":"al","email":"nope","password":"short"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if reg.received.Email != "" {
		t.Fatal("register should not run for an invalid body")
	}
}

func TestAuthRegisterConflict(t *testing.T) {
	reg := &stubRegister{err: pkgerrors.New(pkgerrors.CodeConflict, "email already registered")}
	handler := AuthRegister(reg, &stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"Secret123!"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/users"
	pkgAuth "github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/security"
)

// Every login failure reads the same so callers cannot probe for accounts.
func badCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

// Service signs shoppers and administrators in.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	AdminLogin(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type userStore interface {
	FindByIdentity(ctx context.Context, id users.Identity) (*models.User, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionIssuer interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

type ServiceParams struct {
	UserRepo       userStore
	SessionManager sessionIssuer
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

type service struct {
	users    userStore
	sessions sessionIssuer
	jwtCfg   config.JWTConfig
	decoy    func() string
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.UserRepo == nil:
		return nil, errors.New("auth: user repository is required")
	case params.SessionManager == nil:
		return nil, errors.New("auth: session manager is required")
	}
	pwCfg := params.PasswordConfig
	return &service{
		users:    params.UserRepo,
		sessions: params.SessionManager,
		jwtCfg:   params.JWTConfig,
		// unknown accounts still pay for one argon2 verification
		decoy: sync.OnceValue(func() string {
			hash, _ := security.HashPassword(uuid.NewString(), pwCfg)
			return hash
		}),
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	return s.signIn(ctx, req, "")
}

// AdminLogin rejects non-admins with the same error as a wrong password.
func (s *service) AdminLogin(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	return s.signIn(ctx, req, enums.UserRoleAdmin)
}

func (s *service) signIn(ctx context.Context, req LoginRequest, role enums.UserRole) (*LoginResponse, error) {
	user, err := s.verify(ctx, req)
	if err != nil {
		return nil, err
	}
	if role != "" && user.Role != role {
		return nil, badCredentials()
	}

	now := s.now()
	if err := s.users.RecordLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login")
	}
	user.LastLoginAt = &now

	accessID := session.NewAccessID()
	access, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open session")
	}
	return &LoginResponse{AccessToken: access, RefreshToken: refresh, User: users.FromModel(user)}, nil
}

func (s *service) verify(ctx context.Context, req LoginRequest) (*models.User, error) {
	id := req.Identity()
	if id.Empty() {
		return nil, badCredentials()
	}

	user, err := s.users.FindByIdentity(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		_, _ = security.VerifyPassword(req.Password, s.decoy())
		return nil, badCredentials()
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok || !user.IsActive {
		return nil, badCredentials()
	}
	return user, nil
}

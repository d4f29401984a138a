package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgmodels "github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepository struct {
	data      map[string]*pkgmodels.User
	created   *pkgmodels.User
	createErr error
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{data: map[string]*pkgmodels.User{}}
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) FindByUsername(ctx context.Context, username string) (*pkgmodels.User, error) {
	for _, user := range s.data {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*pkgmodels.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.data[dto.Email] = user
	s.created = user
	return user, nil
}

func newRegisterTestSetup(t *testing.T) (RegisterService, *stubUserRepository) {
	t.Helper()
	userRepo := newStubUserRepository()
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return userRepo
		},
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc, userRepo
}

func TestRegisterCreatesCustomer(t *testing.T) {
	svc, repo := newRegisterTestSetup(t)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		Username: "jamie",
		Email:    " Jamie@Example.com ",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if repo.created == nil {
		t.Fatalf("expected user to be created")
	}
	if dto.Email != "jamie@example.com" {
		t.Fatalf("expected lower-cased email, got %q", dto.Email)
	}
	if dto.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", dto.Role)
	}
	ok, err := security.VerifyPassword("Secret123!", repo.created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected stored hash to verify, ok=%v err=%v", ok, err)
	}
}

func TestRegisterRejectsTakenEmailAndUsername(t *testing.T) {
	svc, repo := newRegisterTestSetup(t)
	repo.data["taken@example.com"] = &pkgmodels.User{ID: uuid.New(), Email: "taken@example.com", Username: "taken"}

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "fresh", Email: "taken@example.com", Password: "Secret123!"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for email, got %v", err)
	}
	_, err = svc.Register(context.Background(), RegisterRequest{Username: "TAKEN", Email: "fresh@example.com", Password: "Secret123!"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for username, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, repo := newRegisterTestSetup(t)
	cases := []RegisterRequest{
		{Username: "jamie", Email: "", Password: "Secret123!"},
		{Username: " ", Email: "a@example.com", Password: "Secret123!"},
		{Username: "jamie", Email: "a@example.com", Password: "short"},
	}
	for _, req := range cases {
		if _, err := svc.Register(context.Background(), req); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %+v, got %v", req, err)
		}
	}
	if repo.created != nil {
		t.Fatalf("expected no user to be created")
	}
}

func TestRegisterMapsCreateFailures(t *testing.T) {
	svc, repo := newRegisterTestSetup(t)
	repo.createErr = errors.New("UNIQUE constraint failed: users.email")
	_, err := svc.Register(context.Background(), RegisterRequest{Username: "jamie", Email: "a@example.com", Password: "Secret123!"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	repo.createErr = errors.New("connection refused")
	_, err = svc.Register(context.Background(), RegisterRequest{Username: "jamie", Email: "a@example.com", Password: "Secret123!"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestAdminRegisterAssignsAdminRole(t *testing.T) {
	repo := newStubUserRepository()
	svc, err := NewAdminRegisterService(RegisterServiceParams{
		TxRunner:        stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository { return repo },
	})
	if err != nil {
		t.Fatalf("new admin register service: %v", err)
	}
	dto, err := svc.Register(context.Background(), RegisterRequest{Username: "boss", Email: "boss@example.com", Password: "Secret123!"})
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	if dto.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role, got %s", dto.Role)
	}
}

func TestNewRegisterServiceRequiresTxRunner(t *testing.T) {
	if _, err := NewRegisterService(RegisterServiceParams{}); err == nil {
		t.Fatal("expected error without tx runner")
	}
}

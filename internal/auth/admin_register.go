package auth

import (
	"context"

	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// AdminRegisterService creates catalog administrators. Only routed outside production.
type AdminRegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

// NewAdminRegisterService builds a registration flow that assigns the admin role.
func NewAdminRegisterService(params RegisterServiceParams) (AdminRegisterService, error) {
	svc, err := newRegisterService(params, enums.UserRoleAdmin)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

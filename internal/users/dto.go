package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// UserDTO is the public view of an account; it never carries the password hash.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Username    string         `json:"username"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CreateUserDTO is a new account. Role defaults to customer and the account
// starts active unless Disabled is set.
type CreateUserDTO struct {
	Email        string
	Username     string
	PasswordHash string
	Role         enums.UserRole
	Disabled     bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if !role.IsValid() {
		role = enums.UserRoleCustomer
	}
	id := Identity{Email: c.Email, Username: c.Username}.Normalize()
	return &models.User{
		Email:        id.Email,
		Username:     id.Username,
		PasswordHash: c.PasswordHash,
		Role:         role,
		IsActive:     !c.Disabled,
	}
}

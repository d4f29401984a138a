package auth

import "github.com/angelmondragon/storefront-backend/internal/users"

// LoginRequest names the account by email or username; email wins when both
// are present.
type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Username string `json:"username,omitempty" validate:"omitempty,max=150"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Identity() users.Identity {
	return users.Identity{Email: r.Email, Username: r.Username}.Normalize()
}

type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// Package users persists storefront accounts.
package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// Identity names an account by email or, failing that, by username.
type Identity struct {
	Email    string
	Username string
}

// Normalize lowercases the email and trims both fields.
func (i Identity) Normalize() Identity {
	return Identity{
		Email:    strings.ToLower(strings.TrimSpace(i.Email)),
		Username: strings.TrimSpace(i.Username),
	}
}

func (i Identity) Empty() bool {
	n := i.Normalize()
	return n.Email == "" && n.Username == ""
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, input CreateUserDTO) (*models.User, error) {
	user := input.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByEmail expects an already lowercased address; emails are stored that way.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "LOWER(username) = LOWER(?)", username)
}

// FindByIdentity prefers the email when both are set. An empty identity
// reports gorm.ErrRecordNotFound.
func (r *Repository) FindByIdentity(ctx context.Context, id Identity) (*models.User, error) {
	n := id.Normalize()
	switch {
	case n.Email != "":
		return r.FindByEmail(ctx, n.Email)
	case n.Username != "":
		return r.FindByUsername(ctx, n.Username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Repository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

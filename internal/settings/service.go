package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	KeyWhatsAppNumber     = "whatsapp_number"
	DefaultWhatsAppNumber = "254701511606"
)

type settingsRepository interface {
	All(ctx context.Context) ([]models.SiteSetting, error)
	Get(ctx context.Context, key string) (*models.SiteSetting, error)
	Upsert(ctx context.Context, key, value string) (*models.SiteSetting, error)
}

// Service reads and writes storefront settings.
type Service interface {
	All(ctx context.Context) (map[string]string, error)
	WhatsAppNumber(ctx context.Context) (string, error)
	Set(ctx context.Context, key, value string) error
}

type service struct {
	repo settingsRepository
}

// NewService wires the settings service.
func NewService(repo settingsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list settings")
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// WhatsAppNumber returns the configured contact number or the storefront default.
func (s *service) WhatsAppNumber(ctx context.Context) (string, error) {
	row, err := s.repo.Get(ctx, KeyWhatsAppNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DefaultWhatsAppNumber, nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load whatsapp number")
	}
	if strings.TrimSpace(row.Value) == "" {
		return DefaultWhatsAppNumber, nil
	}
	return strings.TrimSpace(row.Value), nil
}

func (s *service) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	if _, err := s.repo.Upsert(ctx, key, value); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save setting")
	}
	return nil
}

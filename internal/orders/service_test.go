package orders

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubContact struct {
	number string
	err    error
}

func (s stubContact) WhatsAppNumber(context.Context) (string, error) {
	return s.number, s.err
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, stubContact{}); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewService(NewRepository(newTestDB(t)), nil); err == nil {
		t.Fatal("expected error without settings")
	}
}

func TestGetByOrderNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	product := seedProduct(t, db, "Router", "45.50")
	_, err := repo.Create(context.Background(), newOrder("ORD-ABCDEF12", product, 3))
	require.NoError(t, err)

	svc, err := NewService(repo, stubContact{number: "254700000000"})
	require.NoError(t, err)

	dto, err := svc.GetByOrderNumber(context.Background(), " ord-abcdef12 ")
	require.NoError(t, err)
	assert.Equal(t, "ORD-ABCDEF12", dto.OrderNumber)
	assert.Equal(t, "254700000000", dto.WhatsAppNumber)
	assert.True(t, decimal.RequireFromString("136.50").Equal(dto.TotalAmount))
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 3, dto.Items[0].Quantity)
}

func TestGetByOrderNumberErrors(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	svc, err := NewService(repo, stubContact{number: "254700000000"})
	require.NoError(t, err)

	_, err = svc.GetByOrderNumber(context.Background(), "ORD-00000000")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.GetByOrderNumber(context.Background(), "  ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	db := newTestDB(t)
	product := seedProduct(t, db, "Cable", "2.00")
	failing := NewRepository(db)
	_, err = failing.Create(context.Background(), newOrder("ORD-99999999", product, 1))
	require.NoError(t, err)
	lookupErr := errors.New("settings down")
	svc, err = NewService(failing, stubContact{err: lookupErr})
	require.NoError(t, err)
	_, err = svc.GetByOrderNumber(context.Background(), "ORD-99999999")
	assert.ErrorIs(t, err, lookupErr)
}

package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubTracker struct {
	notified map[uuid.UUID]time.Time
	attempts map[uuid.UUID]int
	markErr  error
	ctxErrs  []error
}

func newStubTracker() *stubTracker {
	return &stubTracker{notified: map[uuid.UUID]time.Time{}, attempts: map[uuid.UUID]int{}}
}

func (s *stubTracker) MarkNotified(_ context.Context, id uuid.UUID, at time.Time) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.notified[id] = at
	return nil
}

func (s *stubTracker) IncrementNotificationAttempts(ctx context.Context, id uuid.UUID) error {
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	s.attempts[id]++
	return nil
}

var fixedNow = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func newTestNotifier(t *testing.T, mailer Mailer, tracker *stubTracker) *Notifier {
	t.Helper()
	n, err := NewNotifier(NotifierParams{
		Mailer:       mailer,
		Orders:       tracker,
		From:         "orders@shop.test",
		AdminAddress: "admin@shop.test",
		Now:          func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return n
}

func sampleOrder(email *string) *models.Order {
	return &models.Order{
		ID:              uuid.New(),
		OrderNumber:     "ORD-0F1E2D3C",
		CustomerName:    "Jane Doe",
		CustomerEmail:   email,
		CustomerPhone:   "0712345678",
		CustomerAddress: "Moi Avenue, Nairobi",
		PaymentMethod:   enums.PaymentMethodCOD,
		TotalAmount:     decimal.RequireFromString("250"),
		Items: []models.OrderItem{
			{ProductName: "Laptop Bag", ProductPrice: decimal.RequireFromString("100"), Quantity: 2, Subtotal: decimal.RequireFromString("200")},
			{ProductName: "Mouse", ProductPrice: decimal.RequireFromString("50"), Quantity: 1, Subtotal: decimal.RequireFromString("50")},
		},
	}
}

func TestNewNotifierValidatesDependencies(t *testing.T) {
	cases := []NotifierParams{
		{Orders: newStubTracker(), AdminAddress: "a@b.c"},
		{Mailer: &recordingMailer{}, AdminAddress: "a@b.c"},
		{Mailer: &recordingMailer{}, Orders: newStubTracker(), AdminAddress: " "},
	}
	for i, params := range cases {
		if _, err := NewNotifier(params); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestOrderPlacedAddressesCustomerWithAdminBcc(t *testing.T) {
	mailer := &recordingMailer{}
	tracker := newStubTracker()
	n := newTestNotifier(t, mailer, tracker)
	email := "jane@example.com"
	order := sampleOrder(&email)

	require.NoError(t, n.OrderPlaced(context.Background(), order))
	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "Order Confirmation - ORD-0F1E2D3C", msg.Subject)
	assert.Equal(t, []string{"jane@example.com"}, msg.To)
	assert.Equal(t, []string{"admin@shop.test"}, msg.Bcc)
	assert.Contains(t, msg.Body, "2 x Laptop Bag @ KES 100.00 = KES 200.00")
	assert.Contains(t, msg.Body, "Total: KES 250.00")
	assert.Contains(t, msg.Body, "Cash on Delivery")
	assert.Equal(t, fixedNow, tracker.notified[order.ID])
}

func TestOrderPlacedWithoutEmailGoesToAdminOnly(t *testing.T) {
	mailer := &recordingMailer{}
	n := newTestNotifier(t, mailer, newStubTracker())
	blank := "  "

	require.NoError(t, n.OrderPlaced(context.Background(), sampleOrder(&blank)))
	require.NoError(t, n.OrderPlaced(context.Background(), sampleOrder(nil)))
	for _, msg := range mailer.sent {
		assert.Equal(t, []string{"admin@shop.test"}, msg.To)
		assert.Empty(t, msg.Bcc)
	}
}

func TestOrderPlacedFailureIncrementsAttempts(t *testing.T) {
	tracker := newStubTracker()
	n := newTestNotifier(t, &recordingMailer{err: errors.New("smtp down")}, tracker)
	order := sampleOrder(nil)

	err := n.OrderPlaced(context.Background(), order)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotification))
	assert.Equal(t, 1, tracker.attempts[order.ID])
	assert.NotContains(t, tracker.notified, order.ID)
}

func TestNotifyBestEffortSwallowsErrors(t *testing.T) {
	tracker := newStubTracker()
	n := newTestNotifier(t, &recordingMailer{err: errors.New("smtp down")}, tracker)
	order := sampleOrder(nil)

	n.NotifyBestEffort(context.Background(), order)
	n.NotifyBestEffort(context.Background(), nil)
	assert.Equal(t, 1, tracker.attempts[order.ID])
}

type deadlineMailer struct{}

func (deadlineMailer) Send(ctx context.Context, _ Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestOrderPlacedRecordsAttemptAfterDeadline(t *testing.T) {
	tracker := newStubTracker()
	n := newTestNotifier(t, deadlineMailer{}, tracker)
	order := sampleOrder(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := n.OrderPlaced(ctx, order)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, tracker.attempts[order.ID])
	assert.Equal(t, []error{nil}, tracker.ctxErrs)
}

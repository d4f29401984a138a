package checkout

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const (
	maxNameLen    = 255
	maxPhoneLen   = 20
	minPhoneDigit = 7
)

// ContactInput is the customer data collected at checkout.
type ContactInput struct {
	CustomerName  string
	Phone         string
	Address       string
	Email         string
	PaymentMethod enums.PaymentMethod
}

// FieldViolation names one rejected checkout field.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Normalize trims every field and lower-cases the email. A parseable email
// is reduced to its bare address so "Jane <jane@example.com>" is stored as
// a usable envelope recipient.
func (c ContactInput) Normalize() ContactInput {
	return ContactInput{
		CustomerName:  strings.TrimSpace(c.CustomerName),
		Phone:         strings.TrimSpace(c.Phone),
		Address:       strings.TrimSpace(c.Address),
		Email:         normalizeEmail(c.Email),
		PaymentMethod: c.PaymentMethod,
	}
}

func normalizeEmail(raw string) string {
	email := strings.TrimSpace(raw)
	if addr, err := mail.ParseAddress(email); err == nil {
		email = addr.Address
	}
	return strings.ToLower(email)
}

// ValidateContact reports every missing or malformed checkout field at once.
func ValidateContact(input ContactInput) error {
	var violations []FieldViolation
	add := func(field, reason string) {
		violations = append(violations, FieldViolation{Field: field, Reason: reason})
	}

	switch {
	case input.CustomerName == "":
		add("customer_name", "is required")
	case len(input.CustomerName) > maxNameLen:
		add("customer_name", fmt.Sprintf("must be at most %d characters", maxNameLen))
	}

	switch {
	case input.Phone == "":
		add("phone", "is required")
	case len(input.Phone) > maxPhoneLen || countDigits(input.Phone) < minPhoneDigit:
		add("phone", "must be a valid phone number")
	}

	if input.Address == "" {
		add("address", "is required")
	}

	if input.Email != "" {
		if addr, err := mail.ParseAddress(input.Email); err != nil || addr.Address != input.Email {
			add("email", "must be a valid email")
		}
	}

	if !input.PaymentMethod.IsValid() {
		add("payment_method", "must be one of mpesa, cash_on_delivery, card")
	}

	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("checkout details invalid for %d field(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

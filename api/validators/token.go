package validators

import (
	"errors"
	"strings"
)

var ErrInvalidToken = errors.New("invalid auth token")

// BearerToken returns the credential from an Authorization value. The
// "Bearer" scheme is optional and case-insensitive; a credential containing
// whitespace is rejected.
func BearerToken(header string) (string, error) {
	value := strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(value, " "); ok && strings.EqualFold(scheme, "bearer") {
		value = strings.TrimSpace(rest)
	}
	if value == "" || strings.ContainsAny(value, " \t") {
		return "", ErrInvalidToken
	}
	return value, nil
}

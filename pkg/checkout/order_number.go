package checkout

import (
	"strings"

	"github.com/google/uuid"
)

// OrderNumberPrefix starts every public order reference.
const OrderNumberPrefix = "ORD-"

// NewOrderNumber returns ORD- followed by 8 uppercase hex digits taken from a
// random UUID.
func NewOrderNumber() string {
	id := uuid.New()
	return OrderNumberPrefix + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// ParseOrderNumber normalizes raw to upper case and reports whether it has
// the shape NewOrderNumber produces.
func ParseOrderNumber(raw string) (string, bool) {
	n := strings.ToUpper(strings.TrimSpace(raw))
	hexPart, ok := strings.CutPrefix(n, OrderNumberPrefix)
	if !ok || len(hexPart) != 8 {
		return "", false
	}
	for _, c := range hexPart {
		if !strings.ContainsRune("0123456789ABCDEF", c) {
			return "", false
		}
	}
	return n, true
}

package db

import (
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint failure from
// Postgres or sqlite. A non-empty constraint narrows the match to violations
// whose constraint or column names contain it.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	if pg, ok := pkgerrors.Postgres(err); ok {
		if pg.SQLState != pgUniqueViolation {
			return false
		}
		return constraint == "" || strings.Contains(pg.Constraint, constraint) || strings.Contains(pg.Detail, constraint)
	}
	// sqlite: "UNIQUE constraint failed: orders.order_number"
	_, cols, ok := strings.Cut(err.Error(), "UNIQUE constraint failed: ")
	if !ok {
		return false
	}
	return constraint == "" || strings.Contains(cols, constraint)
}

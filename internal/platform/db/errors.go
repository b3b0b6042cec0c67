package db

import (
	"errors"

	"github.com/jackc/pgconn"
	pgconn5 "github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation, optionally matching a specific constraint name. Both pgconn
// generations are checked so callers work against pgx v4 and v5 drivers.
func IsUniqueViolation(err error, constraint string) bool {
	var v5Err *pgconn5.PgError
	if errors.As(err, &v5Err) {
		return v5Err.Code == uniqueViolationCode && (constraint == "" || v5Err.ConstraintName == constraint)
	}
	var v4Err *pgconn.PgError
	if errors.As(err, &v4Err) {
		return v4Err.Code == uniqueViolationCode && (constraint == "" || v4Err.ConstraintName == constraint)
	}
	return false
}

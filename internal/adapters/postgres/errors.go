package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolationCode is the Postgres SQLSTATE for unique constraint violations.
const UniqueViolationCode = "23505"

// AsPgError unwraps a *pgconn.PgError if the chain contains one.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

package postgres

import (
	"errors"

	"job-portal-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// notFound maps pgx.ErrNoRows to domain.ErrNotFound and passes anything else through.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// validID guards UUID columns: a malformed id can never match a row, and
// sending it would make Postgres fail the whole statement.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

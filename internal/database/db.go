package database

import (
	"errors"

	"github.com/amicuslegal/amicus/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapPostgresError translates driver errors into domain sentinels so no
// raw database error text ever reaches a caller.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return models.ErrDuplicateAccount
		case "23502", "23503": // not_null_violation, foreign_key_violation
			return models.ErrValidation
		}
	}

	return err
}

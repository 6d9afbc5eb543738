package database

import (
	"errors"

	"github.com/arcanehq/realmgate/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapPostgresError translates driver errors into the model sentinels the
// service layer branches on.
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
			return models.ErrConflict
		case "23503": // foreign_key_violation
			return models.ErrBadRequest
		case "23502": // not_null_violation
			return models.ErrBadRequest
		case "22P02": // invalid_text_representation, e.g. a malformed uuid in an id lookup
			return models.ErrNotFound
		}
	}

	return err
}

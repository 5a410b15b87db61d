package lib

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Domain errors. Services wrap these with %w; handlers map them to HTTP
// statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrUnprocessableState = errors.New("unprocessable state transition")
	ErrBadRequest         = errors.New("bad request")
)

// Auth errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingToken = errors.New("missing token")
)

// MapPgError translates driver errors into domain errors. Both supported
// drivers are recognised.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}

	var code string
	var pgErr pgdriver.Error
	var pgxErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Field('C') // SQLSTATE
	case errors.As(err, &pgxErr):
		code = pgxErr.Code
	}

	switch code {
	case "23505": // unique_violation
		return ErrConflict
	case "P0002": // no_data_found
		return ErrNotFound
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

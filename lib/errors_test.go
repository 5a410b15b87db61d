package lib

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	assert.Nil(t, MapPgError(nil))

	unique := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, MapPgError(unique), ErrConflict)

	noData := &pgconn.PgError{Code: "P0002"}
	assert.True(t, IsNotFound(MapPgError(noData)))

	other := errors.New("boom")
	assert.Equal(t, other, MapPgError(other))
}

func TestDomainErrorsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("order %s: %w", "abc", ErrUnprocessableState)
	assert.ErrorIs(t, err, ErrUnprocessableState)
	assert.False(t, IsConflict(err))
}

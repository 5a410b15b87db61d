package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"waitfaster_server/lib"

	"github.com/uptrace/bun"
)

// ErrStaleVersion reports that a versioned update matched no row because
// another writer got there first.
var ErrStaleVersion = errors.New("stale version")

// DefaultOptimisticAttempts bounds read-modify-write retries on versioned rows
const DefaultOptimisticAttempts = 5

// Transaction runs fn inside a database transaction
func Transaction(ctx context.Context, db bun.IDB, fn func(ctx context.Context, tx bun.Tx) error) error {
	return db.RunInTx(ctx, nil, fn)
}

// Insert inserts a single record
func Insert[T any](ctx context.Context, db bun.IDB, data *T) error {
	if _, err := db.NewInsert().Model(data).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert record: %w", lib.MapPgError(err))
	}
	return nil
}

// FindByID returns the record with the given primary key, or nil
func FindByID[T any](ctx context.Context, db bun.IDB, column string, id any) (*T, error) {
	return Query[T](db).Where(column, id).First(ctx)
}

// UpdateVersioned writes model by primary key only if the stored version still
// equals expected. The caller bumps the model's version before calling.
func UpdateVersioned(ctx context.Context, db bun.IDB, model any, expected int) error {
	res, err := db.NewUpdate().
		Model(model).
		WherePK().
		Where("version = ?", expected).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", lib.MapPgError(err))
	}
	return CheckAffected(res)
}

// CheckAffected maps a zero-row update to ErrStaleVersion
func CheckAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleVersion
	}
	return nil
}

// WithOptimisticRetry reruns fn while it fails with ErrStaleVersion. fn must
// re-read the rows it modifies on every attempt.
func WithOptimisticRetry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	for range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if !errors.Is(err, ErrStaleVersion) {
			return err
		}
	}

	return fmt.Errorf("%w: too many concurrent updates", lib.ErrConflict)
}

// Values converts a typed slice for use with WhereIn
func Values[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// All executes the query and returns all matching records with automatic retry
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	if q.empty {
		return []T{}, nil
	}

	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data []T
	err := WithRetry(ctx, func() error {
		data = nil // Reset on retry
		return q.buildBunQuery(&data).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}

	if data == nil {
		data = []T{}
	}
	return data, nil
}

// First returns the first matching record, or nil when there is none
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	if q.empty {
		return nil, nil
	}

	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data T
	err := WithRetry(ctx, func() error {
		return q.buildBunQuery(&data).Limit(1).Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}

	return &data, nil
}

// Count executes the query and returns the count of matching records with automatic retry
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	if q.empty {
		return 0, nil
	}

	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var count int
	err := WithRetry(ctx, func() error {
		var err error
		count, err = q.buildBunQuery((*T)(nil)).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w (took %v)", err, time.Since(start))
	}

	return count, nil
}

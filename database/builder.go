package database

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// QueryBuilder provides a fluent, type-safe API for building select queries
type QueryBuilder[T any] struct {
	db      bun.IDB
	wheres  []*WhereClause
	orders  []*OrderClause
	empty   bool
	timeout time.Duration
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
}

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// Query starts a new builder for T. db may be the pool or a transaction.
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Where adds an equality condition
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// WhereIn adds an IN condition. An empty list matches nothing.
func (q *QueryBuilder[T]) WhereIn(column string, values []any) *QueryBuilder[T] {
	if len(values) == 0 {
		q.empty = true
		return q
	}
	return q.WhereOp(column, "IN", bun.In(values))
}

// WhereNull adds an IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{Column: column, Operator: "IS NULL"})
	return q
}

// WhereNotNull adds an IS NOT NULL condition
func (q *QueryBuilder[T]) WhereNotNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{Column: column, Operator: "IS NOT NULL"})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{Column: column, Direction: direction})
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

func (q *QueryBuilder[T]) buildBunQuery(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	for _, where := range q.wheres {
		switch where.Operator {
		case "IS NULL", "IS NOT NULL":
			query = query.Where(fmt.Sprintf("%s %s", where.Column, where.Operator))
		case "IN":
			query = query.Where(fmt.Sprintf("%s IN (?)", where.Column), where.Value)
		default:
			query = query.Where(fmt.Sprintf("%s %s ?", where.Column, where.Operator), where.Value)
		}
	}

	for _, order := range q.orders {
		query = query.OrderExpr(fmt.Sprintf("%s %s", order.Column, order.Direction))
	}

	return query
}

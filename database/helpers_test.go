package database_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"waitfaster_server/database"
	"waitfaster_server/database/dbtest"
	"waitfaster_server/lib"
	"waitfaster_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(sessionId uuid.UUID, status tables.OrderStatus) *tables.Order {
	now := time.Now().UTC()
	return &tables.Order{
		Id:        uuid.New(),
		Status:    status,
		SessionId: sessionId,
		Items: []tables.OrderItem{
			{Id: uuid.New(), Status: status, MenuItemId: uuid.New(), Preferences: []string{"no onions"}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestQueryBuilder(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	sessionA, sessionB := uuid.New(), uuid.New()
	require.NoError(t, database.Insert(ctx, db, newOrder(sessionA, tables.OrderStatusOrdered)))
	require.NoError(t, database.Insert(ctx, db, newOrder(sessionA, tables.OrderStatusReady)))
	require.NoError(t, database.Insert(ctx, db, newOrder(sessionB, tables.OrderStatusOrdered)))

	orders, err := database.Query[tables.Order](db).Where("session_id", sessionA).All(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, []string{"no onions"}, orders[0].Items[0].Preferences)

	orders, err = database.Query[tables.Order](db).
		WhereIn("status", database.Values([]tables.OrderStatus{tables.OrderStatusOrdered})).
		All(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = database.Query[tables.Order](db).WhereIn("status", nil).All(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	count, err := database.Query[tables.Order](db).Where("session_id", sessionB).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	missing, err := database.Query[tables.Order](db).Where("id", uuid.New()).First(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQueryBuilder_Timeout(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	require.NoError(t, database.Insert(ctx, db, newOrder(uuid.New(), tables.OrderStatusOrdered)))

	orders, err := database.Query[tables.Order](db).Timeout(time.Minute).All(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = database.Query[tables.Order](db).Timeout(time.Nanosecond).All(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUpdateVersioned(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	order := newOrder(uuid.New(), tables.OrderStatusOrdered)
	require.NoError(t, database.Insert(ctx, db, order))

	stale, err := database.FindByID[tables.Order](ctx, db, "id", order.Id)
	require.NoError(t, err)

	order.Status = tables.OrderStatusPreparing
	order.Version++
	require.NoError(t, database.UpdateVersioned(ctx, db, order, 0))

	stale.Status = tables.OrderStatusCancelled
	stale.Version++
	err = database.UpdateVersioned(ctx, db, stale, 0)
	assert.ErrorIs(t, err, database.ErrStaleVersion)

	stored, err := database.FindByID[tables.Order](ctx, db, "id", order.Id)
	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusPreparing, stored.Status)
	assert.Equal(t, 1, stored.Version)
}

func TestWithOptimisticRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := database.WithOptimisticRetry(ctx, 3, func() error {
		calls++
		if calls < 2 {
			return database.ErrStaleVersion
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = database.WithOptimisticRetry(ctx, 3, func() error {
		calls++
		return database.ErrStaleVersion
	})
	assert.ErrorIs(t, err, lib.ErrConflict)
	assert.Equal(t, 3, calls)

	boom := errors.New("boom")
	err = database.WithOptimisticRetry(ctx, 3, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestUserActiveSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	user := &tables.User{Id: uuid.New(), Username: "Table1", Role: tables.RoleCustomerTablet, CreatedAt: time.Now().UTC()}
	require.NoError(t, database.Insert(ctx, db, user))

	stored, err := database.Query[tables.User](db).Where("username", "Table1").WhereNull("active_session").First(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.ActiveSession)

	err = database.Insert(ctx, db, &tables.User{Id: uuid.New(), Username: "Table1", Role: tables.RoleCustomerTablet, CreatedAt: time.Now().UTC()})
	assert.Error(t, err)
}

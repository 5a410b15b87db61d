package services_test

import (
	"context"
	"testing"
	"waitfaster_server/structs/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Session, order with two items, both advanced, then read back through the panel.
func TestScenario_OrderShowsOnActivityPanel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tablet := f.tablet(t, "Table3")
	f.tablet(t, "Table1")
	f.tablet(t, "Lobby") // no table number, skipped
	f.user(t, "chef", tables.RoleKitchenStaff)

	burger := f.menuItem(t, "Burger")
	fries := f.menuItem(t, "Fries")
	session := f.startSession(t, tablet)
	order := f.order(t, session.Id, burger, fries)
	a, b := order.Items[0].Id, order.Items[1].Id

	updated, err := f.orders.TransitionOrderItem(ctx, order.Id, a, tables.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusOrdered, updated.Status)

	updated, err = f.orders.TransitionOrderItem(ctx, order.Id, b, tables.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusPreparing, updated.Status)

	panel, err := f.projection.ActivityPanel(ctx)
	require.NoError(t, err)
	require.Len(t, panel, 2)

	assert.Equal(t, 1, panel[0].TableNumber)
	assert.Nil(t, panel[0].CurrentSession)

	row := panel[1]
	assert.Equal(t, 3, row.TableNumber)
	assert.Equal(t, "Table3", row.Username)
	require.NotNil(t, row.CurrentSession)
	require.Len(t, row.CurrentSession.Orders, 1)

	projected := row.CurrentSession.Orders[0]
	assert.Equal(t, tables.OrderStatusPreparing, projected.Status)
	require.Len(t, projected.Items, 2)
	assert.Equal(t, "Burger", projected.Items[0].MenuItemName)
	assert.Equal(t, "Fries", projected.Items[1].MenuItemName)
	for _, item := range projected.Items {
		assert.Equal(t, tables.OrderStatusPreparing, item.Status)
	}
}

// Raise, staff handle and close, reopen, then the tablet confirms.
func TestScenario_AssistanceLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tablet := f.tablet(t, "Table1")
	session := f.startSession(t, tablet)
	tablet = f.reload(t, tablet)

	notes := "water please"
	raised, err := f.assistance.Raise(ctx, tablet, &notes)
	require.NoError(t, err)
	started := raised.AssistanceRequests.Current.StartTime

	_, err = f.assistance.StaffUpdate(ctx, session.Id, tables.AssistanceRequestStatusHandling)
	require.NoError(t, err)
	closed, err := f.assistance.StaffUpdate(ctx, session.Id, tables.AssistanceRequestStatusClosed)
	require.NoError(t, err)
	require.Len(t, closed.AssistanceRequests.Handled, 1)

	reopened, err := f.assistance.StaffReopen(ctx, session.Id)
	require.NoError(t, err)
	assert.Empty(t, reopened.AssistanceRequests.Handled)
	require.NotNil(t, reopened.AssistanceRequests.Current)
	assert.Equal(t, tables.AssistanceRequestStatusHandling, reopened.AssistanceRequests.Current.Status)
	assert.True(t, reopened.AssistanceRequests.Current.StartTime.Equal(started))

	resolved, err := f.assistance.TabletResolve(ctx, tablet)
	require.NoError(t, err)
	assert.Nil(t, resolved.AssistanceRequests.Current)
	require.Len(t, resolved.AssistanceRequests.Handled, 1)
	assert.Equal(t, tables.AssistanceRequestStatusClosed, resolved.AssistanceRequests.Handled[0].Status)
	assert.Equal(t, "water please", *resolved.AssistanceRequests.Handled[0].Notes)

	panel, err := f.projection.ActivityPanel(ctx)
	require.NoError(t, err)
	require.Len(t, panel, 1)
	require.NotNil(t, panel[0].CurrentSession)
	assert.Len(t, panel[0].CurrentSession.AssistanceRequests.Handled, 1)
}

func TestOrdersByTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pizza := f.menuItem(t, "Pizza")
	one := f.startSession(t, f.tablet(t, "Table1"))
	f.startSession(t, f.tablet(t, "Table2")) // no orders, omitted
	five := f.startSession(t, f.tablet(t, "Table5"))
	gone := f.startSession(t, f.tablet(t, "Table7"))

	f.order(t, one.Id, pizza)
	ready := f.order(t, five.Id, pizza)
	f.order(t, five.Id, pizza)
	f.order(t, gone.Id, pizza)
	_, err := f.sessions.CompleteSession(ctx, "Table7")
	require.NoError(t, err)

	for _, status := range []tables.OrderStatus{tables.OrderStatusPreparing, tables.OrderStatusReady} {
		_, err := f.orders.TransitionOrderItem(ctx, ready.Id, ready.Items[0].Id, status)
		require.NoError(t, err)
	}

	all, err := f.projection.OrdersByTable(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all.CustomerOrders, 2)
	assert.Equal(t, 1, all.CustomerOrders[0].TableId)
	assert.Len(t, all.CustomerOrders[0].Orders, 1)
	assert.Equal(t, 5, all.CustomerOrders[1].TableId)
	assert.Len(t, all.CustomerOrders[1].Orders, 2)
	assert.Equal(t, "Pizza", all.CustomerOrders[1].Orders[0].Items[0].MenuItemName)

	onlyReady, err := f.projection.OrdersByTable(ctx, []tables.OrderStatus{tables.OrderStatusReady})
	require.NoError(t, err)
	require.Len(t, onlyReady.CustomerOrders, 1)
	assert.Equal(t, 5, onlyReady.CustomerOrders[0].TableId)
	require.Len(t, onlyReady.CustomerOrders[0].Orders, 1)
	assert.Equal(t, ready.Id, onlyReady.CustomerOrders[0].Orders[0].Id)

	none, err := f.projection.OrdersByTable(ctx, []tables.OrderStatus{tables.OrderStatusDelivered})
	require.NoError(t, err)
	assert.NotNil(t, none.CustomerOrders)
	assert.Empty(t, none.CustomerOrders)
}

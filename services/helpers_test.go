package services_test

import (
	"context"
	"sync"
	"testing"
	"time"
	"waitfaster_server/database"
	"waitfaster_server/database/dbtest"
	"waitfaster_server/services"
	"waitfaster_server/structs"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// ---- recording notifier ----

type recordedEvent struct {
	Name    string
	Payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Notify(_ context.Context, name string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{Name: name, Payload: payload})
}

func (n *recordingNotifier) names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, ev := range n.events {
		out[i] = ev.Name
	}
	return out
}

func (n *recordingNotifier) last() recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

// ---- fixture ----

type fixture struct {
	db         *database.DB
	notifier   *recordingNotifier
	identity   *services.IdentityService
	catalog    *services.CatalogService
	projection *services.ProjectionService
	orders     *services.OrderService
	sessions   *services.SessionService
	assistance *services.AssistanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := gecho.NewDefaultLogger()
	db := dbtest.New(t)
	notifier := &recordingNotifier{}

	identity := services.NewIdentityService(logger, db)
	catalog := services.NewCatalogService(logger, db, nil)
	projection := services.NewProjectionService(logger, db, catalog, identity)

	return &fixture{
		db:         db,
		notifier:   notifier,
		identity:   identity,
		catalog:    catalog,
		projection: projection,
		orders:     services.NewOrderService(logger, db, catalog, identity, notifier),
		sessions:   services.NewSessionService(logger, db, identity, projection, notifier),
		assistance: services.NewAssistanceService(logger, db, identity, projection, notifier),
	}
}

func (f *fixture) user(t *testing.T, username string, role tables.Role) *tables.User {
	t.Helper()
	user := &tables.User{Id: uuid.New(), Username: username, Role: role, CreatedAt: time.Now().UTC()}
	require.NoError(t, database.Insert(context.Background(), f.db, user))
	return user
}

func (f *fixture) tablet(t *testing.T, username string) *tables.User {
	t.Helper()
	return f.user(t, username, tables.RoleCustomerTablet)
}

func (f *fixture) menuItem(t *testing.T, name string) *tables.MenuItem {
	t.Helper()
	item := &tables.MenuItem{Id: uuid.New(), Name: name, Price: 9.5}
	require.NoError(t, database.Insert(context.Background(), f.db, item))
	return item
}

// reload fetches the tablet again, the way the auth middleware does per request
func (f *fixture) reload(t *testing.T, user *tables.User) *tables.User {
	t.Helper()
	fresh, err := f.identity.GetUserById(context.Background(), user.Id)
	require.NoError(t, err)
	return fresh
}

func (f *fixture) startSession(t *testing.T, tablet *tables.User) *structs.SessionResponse {
	t.Helper()
	session, err := f.sessions.StartSession(context.Background(), tablet)
	require.NoError(t, err)
	return session
}

func (f *fixture) order(t *testing.T, sessionId uuid.UUID, items ...*tables.MenuItem) *structs.OrderResponse {
	t.Helper()
	req := &structs.CreateOrderRequest{SessionId: sessionId.String()}
	for _, item := range items {
		req.Items = append(req.Items, structs.CreateOrderItemRequest{MenuItemId: item.Id.String()})
	}
	order, err := f.orders.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	return order
}

func (f *fixture) storedOrder(t *testing.T, id uuid.UUID) *tables.Order {
	t.Helper()
	order, err := database.FindByID[tables.Order](context.Background(), f.db, "id", id)
	require.NoError(t, err)
	require.NotNil(t, order)
	return order
}

func (f *fixture) storedSession(t *testing.T, id uuid.UUID) *tables.Session {
	t.Helper()
	session, err := database.FindByID[tables.Session](context.Background(), f.db, "id", id)
	require.NoError(t, err)
	require.NotNil(t, session)
	return session
}

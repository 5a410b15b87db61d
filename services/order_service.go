package services

import (
	"context"
	"fmt"
	"time"
	"waitfaster_server/database"
	"waitfaster_server/lib"
	"waitfaster_server/structs"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type OrderService struct {
	logger   *gecho.Logger
	db       *database.DB
	catalog  *CatalogService
	identity *IdentityService
	notifier Notifier
}

func NewOrderService(
	logger *gecho.Logger,
	db *database.DB,
	catalog *CatalogService,
	identity *IdentityService,
	notifier Notifier,
) *OrderService {
	return &OrderService{
		logger:   logger,
		db:       db,
		catalog:  catalog,
		identity: identity,
		notifier: notifier,
	}
}

// CreateOrder stores a new order for an existing session. Every item starts
// out as ordered.
func (os *OrderService) CreateOrder(ctx context.Context, req *structs.CreateOrderRequest) (*structs.OrderResponse, error) {
	sessionId, err := uuid.Parse(req.SessionId)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", req.SessionId, lib.ErrBadRequest)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order has no items: %w", lib.ErrBadRequest)
	}

	session, err := database.FindByID[tables.Session](ctx, os.db, "id", sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionId, lib.ErrNotFound)
	}

	menuIds := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := uuid.Parse(item.MenuItemId)
		if err != nil {
			return nil, fmt.Errorf("invalid menu item id %q: %w", item.MenuItemId, lib.ErrBadRequest)
		}
		menuIds = append(menuIds, id)
	}

	names, err := os.catalog.RequireNames(ctx, menuIds)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &tables.Order{
		Id:        uuid.New(),
		Status:    tables.OrderStatusOrdered,
		SessionId: session.Id,
		Items:     make([]tables.OrderItem, 0, len(req.Items)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, item := range req.Items {
		order.Items = append(order.Items, tables.OrderItem{
			Id:              uuid.New(),
			Status:          tables.OrderStatusOrdered,
			MenuItemId:      menuIds[i],
			IsFree:          item.IsFree,
			Preferences:     item.Preferences,
			AdditionalNotes: item.AdditionalNotes,
		})
	}

	if err := database.Insert(ctx, os.db, order); err != nil {
		os.logger.Error("Failed to insert order", gecho.Field("error", err), gecho.Field("session_id", sessionId))
		return nil, err
	}

	os.logger.Info("Order created",
		gecho.Field("order_id", order.Id),
		gecho.Field("session_id", sessionId),
		gecho.Field("items", len(order.Items)),
	)
	os.notifier.Notify(ctx, structs.EventActivityPanelUpdated, nil)

	response := toOrderResponse(order, names)
	return &response, nil
}

// TransitionOrderItem moves one item to target and recomputes the order
// status. Concurrent writers on the same order are serialised through the
// version column.
func (os *OrderService) TransitionOrderItem(ctx context.Context, orderId, itemId uuid.UUID, target tables.OrderStatus) (*tables.Order, error) {
	var (
		order *tables.Order
		from  tables.OrderStatus
	)

	err := database.WithOptimisticRetry(ctx, database.DefaultOptimisticAttempts, func() error {
		var err error
		order, err = database.FindByID[tables.Order](ctx, os.db, "id", orderId)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("order %s: %w", orderId, lib.ErrNotFound)
		}

		item := order.Item(itemId)
		if item == nil {
			return fmt.Errorf("item %s on order %s: %w", itemId, orderId, lib.ErrNotFound)
		}

		from = item.Status
		if !CanTransitionOrder(from, target) {
			return fmt.Errorf("cannot move item from %s to %s: %w", from, target, lib.ErrUnprocessableState)
		}

		item.Status = target
		order.Status = RollupOrderStatus(order.Items, order.Status)
		order.UpdatedAt = time.Now().UTC()

		expected := order.Version
		order.Version++
		return database.UpdateVersioned(ctx, os.db, order, expected)
	})
	if err != nil {
		return nil, err
	}

	OrderItemTransitions.WithLabelValues(string(from), string(target)).Inc()
	os.logger.Debug("Order item transitioned",
		gecho.Field("order_id", orderId),
		gecho.Field("item_id", itemId),
		gecho.Field("from", from),
		gecho.Field("to", target),
		gecho.Field("order_status", order.Status),
	)
	os.notifier.Notify(ctx, structs.EventActivityPanelUpdated, nil)

	return order, nil
}

// GetOrder returns one order with its item names resolved
func (os *OrderService) GetOrder(ctx context.Context, orderId uuid.UUID) (*structs.OrderResponse, error) {
	order, err := database.FindByID[tables.Order](ctx, os.db, "id", orderId)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %s: %w", orderId, lib.ErrNotFound)
	}

	menuIds := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		menuIds = append(menuIds, item.MenuItemId)
	}
	names, err := os.catalog.Names(ctx, menuIds)
	if err != nil {
		return nil, err
	}

	response := toOrderResponse(order, names)
	return &response, nil
}

// ListOrders returns orders whose status is in statuses (all when empty),
// optionally restricted to sessions currently bound to a tablet.
func (os *OrderService) ListOrders(ctx context.Context, statuses []tables.OrderStatus, activeOnly bool) ([]tables.Order, error) {
	query := database.Query[tables.Order](os.db).OrderBy("created_at", database.ASC)
	if len(statuses) > 0 {
		query = query.WhereIn("status", database.Values(statuses))
	}

	if activeOnly {
		tablets, err := os.identity.ListActiveTablets(ctx)
		if err != nil {
			return nil, err
		}
		sessionIds := make([]uuid.UUID, 0, len(tablets))
		for _, tablet := range tablets {
			sessionIds = append(sessionIds, *tablet.ActiveSession)
		}
		query = query.WhereIn("session_id", database.Values(sessionIds))
	}

	return query.All(ctx)
}

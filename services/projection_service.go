package services

import (
	"context"
	"fmt"
	"slices"
	"time"
	"waitfaster_server/database"
	"waitfaster_server/lib"
	"waitfaster_server/structs"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// Bound on each read a projection issues
const projectionQueryTimeout = 5 * time.Second

// ProjectionService builds the read models served to staff and tablets.
// It never writes.
type ProjectionService struct {
	logger   *gecho.Logger
	db       *database.DB
	catalog  *CatalogService
	identity *IdentityService
}

func NewProjectionService(logger *gecho.Logger, db *database.DB, catalog *CatalogService, identity *IdentityService) *ProjectionService {
	return &ProjectionService{
		logger:   logger,
		db:       db,
		catalog:  catalog,
		identity: identity,
	}
}

// SessionProjection embeds the session's orders, with item names, and its
// assistance requests.
func (ps *ProjectionService) SessionProjection(ctx context.Context, session *tables.Session) (*structs.SessionResponse, error) {
	orders, err := database.Query[tables.Order](ps.db).
		Where("session_id", session.Id).
		OrderBy("created_at", database.ASC).
		Timeout(projectionQueryTimeout).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for session %s: %w", session.Id, err)
	}

	responses, err := ps.orderResponses(ctx, orders)
	if err != nil {
		return nil, err
	}

	return sessionSnapshot(session, responses), nil
}

// sessionSnapshot renders the session row itself. orders may be empty when
// they could not be loaded.
func sessionSnapshot(session *tables.Session, orders []structs.OrderResponse) *structs.SessionResponse {
	requests := session.AssistanceRequests
	if requests.Handled == nil {
		requests.Handled = []tables.AssistanceRequest{}
	}
	if orders == nil {
		orders = []structs.OrderResponse{}
	}

	return &structs.SessionResponse{
		Id:                 session.Id,
		Status:             session.Status,
		Orders:             orders,
		SessionStartTime:   session.SessionStartTime,
		SessionEndTime:     session.SessionEndTime,
		AssistanceRequests: requests,
	}
}

// ActivityPanel returns one row per numbered tablet, sorted by table number
func (ps *ProjectionService) ActivityPanel(ctx context.Context) ([]structs.TableActivity, error) {
	tablets, err := ps.identity.ListTablets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tablets: %w", err)
	}

	var sessionIds []uuid.UUID
	for _, tablet := range tablets {
		if tablet.ActiveSession != nil {
			sessionIds = append(sessionIds, *tablet.ActiveSession)
		}
	}

	sessions, err := database.Query[tables.Session](ps.db).
		WhereIn("id", database.Values(sessionIds)).
		Timeout(projectionQueryTimeout).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active sessions: %w", err)
	}

	sessionsById := make(map[uuid.UUID]*tables.Session, len(sessions))
	for i := range sessions {
		sessionsById[sessions[i].Id] = &sessions[i]
	}

	panel := make([]structs.TableActivity, 0, len(tablets))
	for _, tablet := range tablets {
		number, ok := lib.TableNumber(tablet.Username)
		if !ok {
			continue
		}

		row := structs.TableActivity{TableNumber: number, Username: tablet.Username}
		if tablet.ActiveSession != nil {
			if session, found := sessionsById[*tablet.ActiveSession]; found {
				row.CurrentSession, err = ps.SessionProjection(ctx, session)
				if err != nil {
					return nil, err
				}
			} else {
				ps.logger.Warn("Tablet bound to missing session",
					gecho.Field("username", tablet.Username),
					gecho.Field("session_id", *tablet.ActiveSession),
				)
			}
		}
		panel = append(panel, row)
	}

	slices.SortFunc(panel, func(a, b structs.TableActivity) int {
		return a.TableNumber - b.TableNumber
	})
	return panel, nil
}

// OrdersByTable groups the orders of active sessions by table. An empty
// status filter matches every status; tables without a match are omitted.
func (ps *ProjectionService) OrdersByTable(ctx context.Context, statuses []tables.OrderStatus) (*structs.OrdersByTableResponse, error) {
	tablesBySession, err := ps.identity.ActiveSessionTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tablets: %w", err)
	}

	sessionIds := make([]uuid.UUID, 0, len(tablesBySession))
	for id := range tablesBySession {
		sessionIds = append(sessionIds, id)
	}

	query := database.Query[tables.Order](ps.db).
		WhereIn("session_id", database.Values(sessionIds)).
		OrderBy("created_at", database.ASC).
		Timeout(projectionQueryTimeout)
	if len(statuses) > 0 {
		query = query.WhereIn("status", database.Values(statuses))
	}

	orders, err := query.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	responses, err := ps.orderResponses(ctx, orders)
	if err != nil {
		return nil, err
	}

	byTable := make(map[int][]structs.OrderResponse)
	for _, order := range responses {
		table := tablesBySession[order.SessionId]
		byTable[table] = append(byTable[table], order)
	}

	result := &structs.OrdersByTableResponse{CustomerOrders: make([]structs.CustomerOrders, 0, len(byTable))}
	for table, tableOrders := range byTable {
		result.CustomerOrders = append(result.CustomerOrders, structs.CustomerOrders{
			TableId: table,
			Orders:  tableOrders,
		})
	}
	slices.SortFunc(result.CustomerOrders, func(a, b structs.CustomerOrders) int {
		return a.TableId - b.TableId
	})

	return result, nil
}

func (ps *ProjectionService) orderResponses(ctx context.Context, orders []tables.Order) ([]structs.OrderResponse, error) {
	var menuIds []uuid.UUID
	for _, order := range orders {
		for _, item := range order.Items {
			menuIds = append(menuIds, item.MenuItemId)
		}
	}

	names, err := ps.catalog.Names(ctx, menuIds)
	if err != nil {
		return nil, err
	}

	responses := make([]structs.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i], names))
	}
	return responses, nil
}

func toOrderResponse(order *tables.Order, names map[uuid.UUID]string) structs.OrderResponse {
	items := make([]structs.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		preferences := item.Preferences
		if preferences == nil {
			preferences = []string{}
		}
		items = append(items, structs.OrderItemResponse{
			Id:              item.Id,
			Status:          item.Status,
			MenuItemId:      item.MenuItemId,
			MenuItemName:    names[item.MenuItemId],
			IsFree:          item.IsFree,
			Preferences:     preferences,
			AdditionalNotes: item.AdditionalNotes,
		})
	}

	return structs.OrderResponse{
		Id:        order.Id,
		Status:    order.Status,
		SessionId: order.SessionId,
		Items:     items,
	}
}

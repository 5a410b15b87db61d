package orders

import (
	"waitfaster_server/api/middleware"
	"waitfaster_server/services"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger            *gecho.Logger
	orderService      *services.OrderService
	projectionService *services.ProjectionService
	mw                *middleware.Middleware
}

func NewOrderRoutesManager(
	logger *gecho.Logger,
	orderService *services.OrderService,
	projectionService *services.ProjectionService,
	mw *middleware.Middleware,
) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:            logger,
		orderService:      orderService,
		projectionService: projectionService,
		mw:                mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(orm.mw.UserAuthMiddleware)

		r.With(orm.mw.RequireRoles(tables.RoleCustomerTablet)).
			Post("/order", orm.CreateOrder)

		r.Group(func(r chi.Router) {
			r.Use(orm.mw.RequireRoles(tables.RoleManager, tables.RoleWaitStaff, tables.RoleKitchenStaff))
			r.Post("/order/{order_id}/{item_id}", orm.TransitionOrderItem)
			r.Get("/orders", orm.ListOrdersByTable)
		})
	})
}

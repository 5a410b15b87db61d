package admin

import (
	"waitfaster_server/api/middleware"
	"waitfaster_server/services"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// AdminRoutesManager serves back-office reads that are not part of the
// floor workflow: raw order history and the tablet roster.
type AdminRoutesManager struct {
	logger          *gecho.Logger
	orderService    *services.OrderService
	identityService *services.IdentityService
	mw              *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	orderService *services.OrderService,
	identityService *services.IdentityService,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:          logger,
		orderService:    orderService,
		identityService: identityService,
		mw:              mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.UserAuthMiddleware)
		r.Use(ar.mw.RequireRoles(tables.RoleAdmin, tables.RoleManager))

		r.Get("/orders", ar.ListOrders)
		r.Get("/orders/{id}", ar.GetOrderDetails)
		r.Get("/tablets", ar.ListTablets)
	})
}

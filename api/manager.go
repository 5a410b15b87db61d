package api

import (
	"waitfaster_server/api/admin"
	"waitfaster_server/api/assistance"
	"waitfaster_server/api/auth"
	"waitfaster_server/api/debug"
	"waitfaster_server/api/health"
	"waitfaster_server/api/middleware"
	"waitfaster_server/api/orders"
	"waitfaster_server/api/panel"
	"waitfaster_server/api/sessions"
	"waitfaster_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	healthRoutes     *health.HealthRoutesManager
	authRoutes       *auth.AuthRoutesManager
	orderRoutes      *orders.OrderRoutesManager
	sessionRoutes    *sessions.SessionRoutesManager
	assistanceRoutes *assistance.AssistanceRoutesManager
	panelRoutes      *panel.PanelRoutesManager
	adminRoutes      *admin.AdminRoutesManager
	debugRoutes      *debug.DebugRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		healthRoutes:     health.NewHealthRoutesManager(sm.HealthService),
		authRoutes:       auth.NewAuthRoutesManager(logger, mw),
		orderRoutes:      orders.NewOrderRoutesManager(logger, sm.OrderService, sm.ProjectionService, mw),
		sessionRoutes:    sessions.NewSessionRoutesManager(logger, sm.SessionService, mw),
		assistanceRoutes: assistance.NewAssistanceRoutesManager(logger, sm.AssistanceService, mw),
		panelRoutes:      panel.NewPanelRoutesManager(logger, sm.ProjectionService, mw),
		adminRoutes:      admin.NewAdminRoutesManager(logger, sm.OrderService, sm.IdentityService, mw),
		debugRoutes:      debug.NewDebugRoutesManager(sm.CacheService, sm.NotificationService.Hub()),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
	rm.sessionRoutes.RegisterRoutes(r)
	rm.assistanceRoutes.RegisterRoutes(r)
	rm.panelRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}

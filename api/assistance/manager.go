package assistance

import (
	"waitfaster_server/api/middleware"
	"waitfaster_server/services"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AssistanceRoutesManager struct {
	logger            *gecho.Logger
	assistanceService *services.AssistanceService
	mw                *middleware.Middleware
}

func NewAssistanceRoutesManager(logger *gecho.Logger, assistanceService *services.AssistanceService, mw *middleware.Middleware) *AssistanceRoutesManager {
	return &AssistanceRoutesManager{
		logger:            logger,
		assistanceService: assistanceService,
		mw:                mw,
	}
}

func (arm *AssistanceRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/assistance", func(r chi.Router) {
		r.Use(arm.mw.UserAuthMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(arm.mw.RequireRoles(tables.RoleCustomerTablet))
			r.Post("/request", arm.Raise)
			r.Post("/resolve", arm.TabletResolve)
		})

		r.Group(func(r chi.Router) {
			r.Use(arm.mw.RequireRoles(tables.RoleManager, tables.RoleWaitStaff))
			r.Get("/requests", arm.ListOpen)
			r.Post("/{session_id}/status", arm.StaffUpdate)
			r.Post("/{session_id}/reopen", arm.StaffReopen)
		})
	})
}

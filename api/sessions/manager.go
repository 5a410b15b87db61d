package sessions

import (
	"waitfaster_server/api/middleware"
	"waitfaster_server/services"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type SessionRoutesManager struct {
	logger         *gecho.Logger
	sessionService *services.SessionService
	mw             *middleware.Middleware
}

func NewSessionRoutesManager(logger *gecho.Logger, sessionService *services.SessionService, mw *middleware.Middleware) *SessionRoutesManager {
	return &SessionRoutesManager{
		logger:         logger,
		sessionService: sessionService,
		mw:             mw,
	}
}

func (srm *SessionRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(srm.mw.UserAuthMiddleware)

		// Tablet routes act on the caller's own seating
		r.Group(func(r chi.Router) {
			r.Use(srm.mw.RequireRoles(tables.RoleCustomerTablet))
			r.Post("/session/start", srm.StartSession)
			r.Post("/session/lock", srm.LockSession)
			r.Get("/table/session", srm.GetTableSession)
		})

		r.With(srm.mw.RequireRoles(tables.RoleManager, tables.RoleWaitStaff)).
			Post("/session/complete/{table_name}", srm.CompleteSession)
	})
}

package panel

import (
	"net/http"
	"waitfaster_server/api/middleware"
	"waitfaster_server/handling"
	"waitfaster_server/services"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type PanelRoutesManager struct {
	logger            *gecho.Logger
	projectionService *services.ProjectionService
	mw                *middleware.Middleware
}

func NewPanelRoutesManager(logger *gecho.Logger, projectionService *services.ProjectionService, mw *middleware.Middleware) *PanelRoutesManager {
	return &PanelRoutesManager{
		logger:            logger,
		projectionService: projectionService,
		mw:                mw,
	}
}

func (prm *PanelRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(prm.mw.UserAuthMiddleware)
		r.Use(prm.mw.RequireRoles(tables.RoleManager, tables.RoleWaitStaff))
		r.Get("/activity-panel", prm.GetActivityPanel)
	})
}

// GetActivityPanel returns one row per table, seated or not.
func (prm *PanelRoutesManager) GetActivityPanel(w http.ResponseWriter, r *http.Request) {
	panel, err := prm.projectionService.ActivityPanel(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "panel", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.panel.fetched"),
		gecho.WithData(panel),
		gecho.Send(),
	)
}

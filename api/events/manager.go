package events

import (
	"waitfaster_server/api/middleware"
	"waitfaster_server/services"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type EventRoutesManager struct {
	logger *gecho.Logger
	cfg    *structs.NotifyConfig
	hub    *services.Hub
	mw     *middleware.Middleware
}

func NewEventRoutesManager(logger *gecho.Logger, cfg *structs.NotifyConfig, hub *services.Hub, mw *middleware.Middleware) *EventRoutesManager {
	return &EventRoutesManager{
		logger: logger,
		cfg:    cfg,
		hub:    hub,
		mw:     mw,
	}
}

func (erm *EventRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(erm.mw.UserAuthMiddleware)
		r.Get("/events", erm.Stream)
	})
}

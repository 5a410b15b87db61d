package debug

import (
	"waitfaster_server/config"
	"waitfaster_server/services"

	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	cacheService *services.CacheService
	hub          *services.Hub
}

// NewDebugRoutesManager builds the debug routes. cacheService may be nil.
func NewDebugRoutesManager(cacheService *services.CacheService, hub *services.Hub) *DebugRoutesManager {
	return &DebugRoutesManager{
		cacheService: cacheService,
		hub:          hub,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if !config.IsProduction() {
		r.Route("/debug", func(r chi.Router) {
			r.Get("/viewers", drm.GetViewers)
			r.Get("/cache/stats", drm.GetCacheStats)
			r.Post("/cache/clear", drm.ClearCache)
		})
	}
}

package middleware

import (
	"waitfaster_server/services"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
)

type Middleware struct {
	cfg             *structs.Config
	logger          *gecho.Logger
	identityService *services.IdentityService
	cacheService    *services.CacheService
}

// NewMiddleware builds the shared middleware set. The cache service on sm
// may be nil, in which case rate limiting is skipped.
func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, sm *services.ServiceManager) *Middleware {
	return &Middleware{
		cfg:             cfg,
		logger:          logger,
		identityService: sm.IdentityService,
		cacheService:    sm.CacheService,
	}
}

package debug

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (drm *DebugRoutesManager) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	if drm.cacheService == nil {
		gecho.ServiceUnavailable(w, gecho.WithMessage("error.cache.disabled"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(drm.cacheService.GetConnectionStats()),
		gecho.Send(),
	)
}

func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	if drm.cacheService == nil {
		gecho.ServiceUnavailable(w, gecho.WithMessage("error.cache.disabled"), gecho.Send())
		return
	}

	cleared, err := drm.cacheService.ClearMenuItemNames(r.Context())
	if err != nil {
		gecho.InternalServerError(w,
			gecho.WithMessage("error.cache.clearFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.cache.cleared"),
		gecho.WithData(map[string]int{"cleared": cleared}),
		gecho.Send(),
	)
}

// GetViewers reports how many event streams this instance is serving
func (drm *DebugRoutesManager) GetViewers(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(map[string]int{"viewers": drm.hub.Len()}),
		gecho.Send(),
	)
}

package api

import (
	"net/http"
	"waitfaster_server/api/events"
	"waitfaster_server/api/middleware"
	"waitfaster_server/config"
	"waitfaster_server/services"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

func App(cfg *structs.Config, sm *services.ServiceManager) chi.Router {
	r := chi.NewRouter()

	// create loggers
	logLevel := gecho.ParseLogLevel(config.GetLogLevel())
	mwLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false), gecho.WithLogLevel(logLevel)))
	standardLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(true), gecho.WithLogLevel(logLevel)))

	// Initialize middleware
	mw := middleware.NewMiddleware(cfg, mwLogger, sm)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(10 * 1024 * 1024))
	r.Use(mw.SecurityHeaders())
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before auth)
	r.Use(mw.SetupCORS().Handler)

	// The event stream stays open for the life of the viewer, so it skips
	// request logging and rate limiting.
	events.NewEventRoutesManager(standardLogger, cfg.Notify, sm.NotificationService.Hub(), mw).RegisterRoutes(r)

	r.Group(func(r chi.Router) {
		// Observability
		r.Use(gecho.Handlers.CreateLoggingMiddleware(mwLogger))
		r.Use(mw.RateLimitMiddleware())

		// Register all routes
		NewRouterManager(standardLogger, sm, mw).RegisterRoutes(r)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			gecho.Success(w,
				gecho.WithMessage("Welcome to the WaitFaster API"),
				gecho.Send(),
			)
		})

		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			gecho.NotFound(w,
				gecho.Send(),
			)
		})
	})

	return r
}

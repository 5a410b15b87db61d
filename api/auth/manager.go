package auth

import (
	"waitfaster_server/api/middleware"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger *gecho.Logger
	mw     *middleware.Middleware
}

func NewAuthRoutesManager(logger *gecho.Logger, mw *middleware.Middleware) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger: logger,
		mw:     mw,
	}
}

func (ar *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Use(ar.mw.UserAuthMiddleware)
		r.Get("/me", ar.HandleMe)
	})
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"waitfaster_server/lib"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing user data in request context
type contextKey string

const UserContextKey contextKey = "user"

// UserAuthMiddleware protects routes to only logged-in users. The user row
// is loaded on every request so the active session reference is current.
func (mw *Middleware) UserAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.cfg.Auth.AccessTokenSecret)
		if err != nil {
			mw.logger.Warn("Failed to extract claims from request", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
			return
		}

		user, err := mw.identityService.GetUserById(r.Context(), claims.Sub)
		if err != nil {
			if errors.Is(err, lib.ErrNotFound) {
				mw.logger.Warn("Token subject does not exist", gecho.Field("user_id", claims.Sub))
				gecho.Unauthorized(w, gecho.WithMessage("error.auth.unknownUser"), gecho.Send())
				return
			}
			mw.logger.Error("Failed to load user for request", gecho.Field("error", err), gecho.Field("user_id", claims.Sub))
			gecho.InternalServerError(w, gecho.WithMessage("error.auth.internal"), gecho.Send())
			return
		}

		if string(user.Role) != claims.Role {
			mw.logger.Debug("Token role differs from stored role",
				gecho.Field("user_id", user.Id),
				gecho.Field("claim_role", claims.Role),
				gecho.Field("role", user.Role),
			)
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles admits only users holding one of roles.
// Must be used after UserAuthMiddleware
func (mw *Middleware) RequireRoles(roles ...tables.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
				return
			}

			if !slices.Contains(roles, user.Role) {
				mw.logger.Warn("User lacks required role",
					gecho.Field("user_id", user.Id),
					gecho.Field("role", user.Role),
					gecho.Field("path", r.URL.Path),
				)
				gecho.Forbidden(w, gecho.WithMessage("error.auth.forbidden"), gecho.Send())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext is a helper function to extract the user from request context
func GetUserFromContext(ctx context.Context) (*tables.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*tables.User)
	return user, ok
}

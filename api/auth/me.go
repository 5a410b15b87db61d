package auth

import (
	"net/http"
	"waitfaster_server/api/middleware"
	"waitfaster_server/lib"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

type meResponse struct {
	User        *tables.User `json:"user"`
	TableNumber *int         `json:"table_number"`
}

// HandleMe tells a client who its token belongs to. Tablets also learn
// their table number.
func (ar *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
		return
	}

	response := meResponse{User: user}
	if user.IsTablet() {
		if number, ok := lib.TableNumber(user.Username); ok {
			response.TableNumber = &number
		}
	}

	gecho.Success(w,
		gecho.WithData(response),
		gecho.Send(),
	)
}

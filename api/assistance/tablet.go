package assistance

import (
	"net/http"
	"waitfaster_server/api/middleware"
	"waitfaster_server/handling"
	"waitfaster_server/lib"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
)

// Raise accepts an optional {"notes": "..."} body.
func (arm *AssistanceRoutesManager) Raise(w http.ResponseWriter, r *http.Request) {
	tablet, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
		return
	}

	body, err := lib.ExtractOptionalBody[structs.RaiseAssistanceRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.assistance.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	session, err := arm.assistanceService.Raise(r.Context(), tablet, body.Notes)
	if err != nil {
		handling.HandleServiceError(err, "assistance", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.assistance.raised"),
		gecho.WithData(session),
		gecho.Send(),
	)
}

func (arm *AssistanceRoutesManager) TabletResolve(w http.ResponseWriter, r *http.Request) {
	tablet, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
		return
	}

	session, err := arm.assistanceService.TabletResolve(r.Context(), tablet)
	if err != nil {
		handling.HandleServiceError(err, "assistance", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.assistance.resolved"),
		gecho.WithData(session),
		gecho.Send(),
	)
}

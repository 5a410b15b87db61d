package assistance

import (
	"net/http"
	"waitfaster_server/handling"
	"waitfaster_server/lib"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AssistanceRoutesManager) StaffUpdate(w http.ResponseWriter, r *http.Request) {
	sessionId, err := handling.ParseUUIDParam(r, "session_id")
	if err != nil {
		handling.HandleServiceError(err, "assistance", arm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateAssistanceRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.assistance.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	session, err := arm.assistanceService.StaffUpdate(r.Context(), sessionId, body.Status)
	if err != nil {
		handling.HandleServiceError(err, "assistance", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.assistance.updated"),
		gecho.WithData(session),
		gecho.Send(),
	)
}

func (arm *AssistanceRoutesManager) StaffReopen(w http.ResponseWriter, r *http.Request) {
	sessionId, err := handling.ParseUUIDParam(r, "session_id")
	if err != nil {
		handling.HandleServiceError(err, "assistance", arm.logger, w)
		return
	}

	session, err := arm.assistanceService.StaffReopen(r.Context(), sessionId)
	if err != nil {
		handling.HandleServiceError(err, "assistance", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.assistance.reopened"),
		gecho.WithData(session),
		gecho.Send(),
	)
}

func (arm *AssistanceRoutesManager) ListOpen(w http.ResponseWriter, r *http.Request) {
	requests, err := arm.assistanceService.ListOpen(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "assistance", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.assistance.listed"),
		gecho.WithData(requests),
		gecho.Send(),
	)
}

package sessions

import (
	"net/http"
	"waitfaster_server/api/middleware"
	"waitfaster_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (srm *SessionRoutesManager) StartSession(w http.ResponseWriter, r *http.Request) {
	tablet, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
		return
	}

	session, err := srm.sessionService.StartSession(r.Context(), tablet)
	if err != nil {
		handling.HandleServiceError(err, "session", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.session.started"),
		gecho.WithData(session),
		gecho.Send(),
	)
}

func (srm *SessionRoutesManager) LockSession(w http.ResponseWriter, r *http.Request) {
	tablet, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
		return
	}

	session, err := srm.sessionService.LockSession(r.Context(), tablet)
	if err != nil {
		handling.HandleServiceError(err, "session", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.session.locked"),
		gecho.WithData(session),
		gecho.Send(),
	)
}

func (srm *SessionRoutesManager) CompleteSession(w http.ResponseWriter, r *http.Request) {
	tableName := chi.URLParam(r, "table_name")
	if tableName == "" {
		gecho.BadRequest(w, gecho.WithMessage("error.session.missingTableName"), gecho.Send())
		return
	}

	completed, err := srm.sessionService.CompleteSession(r.Context(), tableName)
	if err != nil {
		handling.HandleServiceError(err, "session", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.session.completed"),
		gecho.WithData(completed),
		gecho.Send(),
	)
}

// GetTableSession answers with null data when the tablet is not seated.
func (srm *SessionRoutesManager) GetTableSession(w http.ResponseWriter, r *http.Request) {
	tablet, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
		return
	}

	session, err := srm.sessionService.GetTableSession(r.Context(), tablet)
	if err != nil {
		handling.HandleServiceError(err, "session", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.session.fetched"),
		gecho.WithData(session),
		gecho.Send(),
	)
}

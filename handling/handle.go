package handling

import (
	"errors"
	"net/http"
	"waitfaster_server/lib"

	"github.com/MonkyMars/gecho"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg))

	return gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
}

// HandleServiceError writes the response for an error returned by a
// lifecycle service. Message keys are built as error.<area>.<kind>.
func HandleServiceError(err error, area string, logger *gecho.Logger, w http.ResponseWriter) {
	detail := map[string]string{"error": err.Error()}

	switch {
	case lib.IsNotFound(err):
		gecho.NotFound(w,
			gecho.WithMessage("error."+area+".notFound"),
			gecho.WithData(detail),
			gecho.Send(),
		)
	case lib.IsConflict(err):
		gecho.Conflict(w,
			gecho.WithMessage("error."+area+".conflict"),
			gecho.WithData(detail),
			gecho.Send(),
		)
	case errors.Is(err, lib.ErrUnprocessableState):
		WriteUnprocessable(w, "error."+area+".invalidTransition", detail)
	case errors.Is(err, lib.ErrBadRequest):
		gecho.BadRequest(w,
			gecho.WithMessage("error."+area+".badRequest"),
			gecho.WithData(detail),
			gecho.Send(),
		)
	default:
		HandleError(err, "error."+area+".internal", logger, w)
	}
}

// WriteUnprocessable writes a 422 with the message key and detail
func WriteUnprocessable(w http.ResponseWriter, message string, data any) {
	gecho.NewErr(w,
		gecho.WithStatus(http.StatusUnprocessableEntity),
		gecho.WithMessage(message),
		gecho.WithData(data),
		gecho.Send(),
	)
}

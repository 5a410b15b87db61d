package admin

import (
	"net/http"
	"waitfaster_server/handling"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListTablets(w http.ResponseWriter, r *http.Request) {
	tablets, err := ar.identityService.ListTablets(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "identity", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.identity.tabletsFetched"),
		gecho.WithData(tablets),
		gecho.Send(),
	)
}

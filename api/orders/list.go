package orders

import (
	"net/http"
	"waitfaster_server/handling"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// ListOrdersByTable serves the staff order board: orders of tables with an
// open seating, grouped by table number.
func (orm *OrderRoutesManager) ListOrdersByTable(w http.ResponseWriter, r *http.Request) {
	statuses, err := handling.ParseStatusFilter(r, "statuses", tables.AllOrderStatuses)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	board, err := orm.projectionService.OrdersByTable(r.Context(), statuses)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.listed"),
		gecho.WithData(board),
		gecho.Send(),
	)
}

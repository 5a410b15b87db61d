package admin

import (
	"net/http"
	"strconv"
	"waitfaster_server/handling"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// ListOrders returns stored orders, oldest first. ?statuses filters by
// status and ?active=true drops orders of closed seatings.
func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	statuses, err := handling.ParseStatusFilter(r, "statuses", tables.AllOrderStatuses)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}

	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		activeOnly, err = strconv.ParseBool(raw)
		if err != nil {
			gecho.BadRequest(w,
				gecho.WithMessage("error.order.invalidActiveFlag"),
				gecho.WithData(map[string]string{"error": err.Error()}),
				gecho.Send(),
			)
			return
		}
	}

	orders, err := ar.orderService.ListOrders(r.Context(), statuses, activeOnly)
	if err != nil {
		ar.logger.Error("Failed to get orders",
			gecho.Field("error", err),
			gecho.Field("active_only", activeOnly))
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.ordersFetched"),
		gecho.WithData(map[string]any{
			"orders": orders,
			"total":  len(orders),
		}),
		gecho.Send(),
	)
}

// GetOrderDetails returns one order with resolved item names
func (ar *AdminRoutesManager) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	orderId, err := handling.ParseUUIDParam(r, "id")
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}

	order, err := ar.orderService.GetOrder(r.Context(), orderId)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.orderDetailsFetched"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

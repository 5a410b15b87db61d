package orders

import (
	"net/http"
	"slices"
	"waitfaster_server/handling"
	"waitfaster_server/lib"
	"waitfaster_server/structs"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

func (orm *OrderRoutesManager) TransitionOrderItem(w http.ResponseWriter, r *http.Request) {
	orderId, err := handling.ParseUUIDParam(r, "order_id")
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}
	itemId, err := handling.ParseUUIDParam(r, "item_id")
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateOrderItemRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}
	if !slices.Contains(tables.AllOrderStatuses, body.Status) {
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.unknownStatus"),
			gecho.WithData(map[string]any{"status": body.Status, "allowed": tables.AllOrderStatuses}),
			gecho.Send(),
		)
		return
	}

	order, err := orm.orderService.TransitionOrderItem(r.Context(), orderId, itemId, body.Status)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.itemUpdated"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

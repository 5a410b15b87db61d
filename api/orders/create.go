package orders

import (
	"net/http"
	"waitfaster_server/handling"
	"waitfaster_server/lib"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
)

func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateOrderRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	order, err := orm.orderService.CreateOrder(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.created"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

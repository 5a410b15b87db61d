package structs

import (
	"waitfaster_server/structs/tables"

	"github.com/google/uuid"
)

type CreateOrderItemRequest struct {
	MenuItemId      string   `json:"menu_item_id" validate:"required,uuid"`
	IsFree          bool     `json:"is_free"`
	Preferences     []string `json:"preferences" validate:"omitempty,max=20,dive,max=100"`
	AdditionalNotes *string  `json:"additional_notes" validate:"omitempty,max=500"`
}

type CreateOrderRequest struct {
	SessionId string                   `json:"session_id" validate:"required,uuid"`
	Items     []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderItemRequest struct {
	Status tables.OrderStatus `json:"status" validate:"required"`
}

type OrderItemResponse struct {
	Id              uuid.UUID          `json:"id"`
	Status          tables.OrderStatus `json:"status"`
	MenuItemId      uuid.UUID          `json:"menu_item_id"`
	MenuItemName    string             `json:"menu_item_name"`
	IsFree          bool               `json:"is_free"`
	Preferences     []string           `json:"preferences"`
	AdditionalNotes *string            `json:"additional_notes"`
}

type OrderResponse struct {
	Id        uuid.UUID           `json:"id"`
	Status    tables.OrderStatus  `json:"status"`
	SessionId uuid.UUID           `json:"session_id"`
	Items     []OrderItemResponse `json:"items"`
}

// CustomerOrders is one table's row on the staff order board.
type CustomerOrders struct {
	TableId int             `json:"table_id"`
	Orders  []OrderResponse `json:"orders"`
}

type OrdersByTableResponse struct {
	CustomerOrders []CustomerOrders `json:"customer_orders"`
}

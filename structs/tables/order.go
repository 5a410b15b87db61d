package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	Id        uuid.UUID   `bun:"id,pk,type:uuid" json:"id"`
	Status    OrderStatus `bun:"status,notnull" json:"status"`
	SessionId uuid.UUID   `bun:"session_id,notnull,type:uuid" json:"session_id"`
	// Items are embedded in the order document and never queried on their own.
	Items     []OrderItem `bun:"items,type:jsonb" json:"items"`
	Version   int         `bun:"version,notnull" json:"-"`
	CreatedAt time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time   `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type OrderItem struct {
	Id              uuid.UUID   `json:"id"`
	Status          OrderStatus `json:"status"`
	MenuItemId      uuid.UUID   `json:"menu_item_id"`
	IsFree          bool        `json:"is_free"`
	Preferences     []string    `json:"preferences,omitempty"`
	AdditionalNotes *string     `json:"additional_notes,omitempty"`
}

// Item returns a pointer into o.Items for the given id, or nil.
func (o *Order) Item(id uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].Id == id {
			return &o.Items[i]
		}
	}
	return nil
}

type OrderStatus string

const (
	OrderStatusOrdered    OrderStatus = "ordered"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var AllOrderStatuses = []OrderStatus{
	OrderStatusOrdered,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivering,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

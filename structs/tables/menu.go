package tables

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MenuItem is the catalog row orders reference. The catalog is managed
// elsewhere; this service only reads it.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	Id          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Price       float64   `bun:"price,notnull" json:"price"`
	Description string    `bun:"description" json:"description,omitempty"`
}

package database

import (
	"context"
	"fmt"
	"waitfaster_server/structs/tables"

	"github.com/uptrace/bun"
)

var models = []any{
	(*tables.User)(nil),
	(*tables.MenuItem)(nil),
	(*tables.Session)(nil),
	(*tables.Order)(nil),
}

// Migrate creates the schema if it does not exist yet
func Migrate(ctx context.Context, db bun.IDB) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}

	_, err := db.NewCreateIndex().
		Model((*tables.Order)(nil)).
		Index("orders_session_id_idx").
		Column("session_id").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create orders index: %w", err)
	}

	return nil
}

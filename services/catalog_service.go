package services

import (
	"context"
	"fmt"
	"waitfaster_server/database"
	"waitfaster_server/lib"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// CatalogService resolves menu item display names. The catalog itself is
// maintained by another service; this one only reads it.
type CatalogService struct {
	logger *gecho.Logger
	db     *database.DB
	cache  *CacheService
}

// NewCatalogService builds the lookup. cache may be nil.
func NewCatalogService(logger *gecho.Logger, db *database.DB, cache *CacheService) *CatalogService {
	return &CatalogService{
		logger: logger,
		db:     db,
		cache:  cache,
	}
}

// Names returns display names for the given menu items. Unknown ids are
// absent from the result.
func (cs *CatalogService) Names(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	ids = unique(ids)
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	missing := ids
	if cs.cache != nil {
		cached, err := cs.cache.GetMenuItemNames(ctx, ids)
		if err != nil {
			cs.logger.Warn("Menu item cache lookup failed", gecho.Field("error", err))
		} else {
			missing = nil
			for _, id := range ids {
				if name, ok := cached[id]; ok {
					names[id] = name
				} else {
					missing = append(missing, id)
				}
			}
		}
	}

	if len(missing) == 0 {
		return names, nil
	}

	items, err := database.Query[tables.MenuItem](cs.db).
		WhereIn("id", database.Values(missing)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}

	fetched := make(map[uuid.UUID]string, len(items))
	for _, item := range items {
		names[item.Id] = item.Name
		fetched[item.Id] = item.Name
	}

	if cs.cache != nil {
		if err := cs.cache.SetMenuItemNames(ctx, fetched); err != nil {
			cs.logger.Warn("Failed to cache menu item names", gecho.Field("error", err))
		}
	}

	return names, nil
}

// RequireNames is Names, failing with ErrNotFound when any id is unknown.
func (cs *CatalogService) RequireNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names, err := cs.Names(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, ok := names[id]; !ok {
			return nil, fmt.Errorf("menu item %s: %w", id, lib.ErrNotFound)
		}
	}
	return names, nil
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

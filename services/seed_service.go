package services

import (
	"context"
	"fmt"
	"io"
	"time"
	"waitfaster_server/database"
	"waitfaster_server/structs"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

// seedNamespace derives stable ids for menu items seeded without one
var seedNamespace = uuid.MustParse("9a4e2f7c-5b1d-4c8e-8f3a-2d6b0c9e1a47")

// SeedService loads identities and catalog rows from a YAML document so a
// fresh database can be used without the external admin services.
type SeedService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewSeedService(logger *gecho.Logger, db *database.DB) *SeedService {
	return &SeedService{
		logger: logger,
		db:     db,
	}
}

// ParseSeed decodes and checks a seed document
func ParseSeed(r io.Reader) (*structs.SeedFile, error) {
	var seed structs.SeedFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	for _, user := range seed.Users {
		if user.Username == "" {
			return nil, fmt.Errorf("seed user without username")
		}
		if !user.Role.Valid() {
			return nil, fmt.Errorf("seed user %s has unknown role %q", user.Username, user.Role)
		}
	}
	for _, item := range seed.Menu {
		if item.Name == "" {
			return nil, fmt.Errorf("seed menu item without name")
		}
		if item.Id != "" {
			if _, err := uuid.Parse(item.Id); err != nil {
				return nil, fmt.Errorf("seed menu item %s has invalid id: %w", item.Name, err)
			}
		}
	}

	return &seed, nil
}

// Apply inserts the seed rows. Users already present by username and menu
// items already present by id are left untouched, so applying the same
// file twice is harmless.
func (ss *SeedService) Apply(ctx context.Context, seed *structs.SeedFile) error {
	var users, items int

	err := database.Transaction(ctx, ss.db, func(ctx context.Context, tx bun.Tx) error {
		for _, u := range seed.Users {
			user := &tables.User{
				Id:        uuid.New(),
				Username:  u.Username,
				Role:      u.Role,
				CreatedAt: time.Now().UTC(),
			}
			res, err := tx.NewInsert().Model(user).On("CONFLICT (username) DO NOTHING").Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.Username, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				users++
			}
		}

		for _, m := range seed.Menu {
			id := uuid.NewSHA1(seedNamespace, []byte(m.Name))
			if m.Id != "" {
				id = uuid.MustParse(m.Id)
			}
			item := &tables.MenuItem{
				Id:          id,
				Name:        m.Name,
				Price:       m.Price,
				Description: m.Description,
			}
			res, err := tx.NewInsert().Model(item).On("CONFLICT (id) DO NOTHING").Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to seed menu item %s: %w", m.Name, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				items++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	ss.logger.Info("Seed applied",
		gecho.Field("users", users),
		gecho.Field("menu_items", items),
	)
	return nil
}

package services

import (
	"context"
	"fmt"
	"waitfaster_server/database"
	"waitfaster_server/lib"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// IdentityService reads the users table. Credentials and user management
// live in an external service; this side only needs roles and the
// tablet-to-session binding.
type IdentityService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewIdentityService(logger *gecho.Logger, db *database.DB) *IdentityService {
	return &IdentityService{
		logger: logger,
		db:     db,
	}
}

func (is *IdentityService) GetUserById(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	user, err := database.FindByID[tables.User](ctx, is.db, "id", id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, lib.ErrNotFound)
	}
	return user, nil
}

func (is *IdentityService) GetUserByUsername(ctx context.Context, username string) (*tables.User, error) {
	user, err := database.Query[tables.User](is.db).Where("username", username).First(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", username, lib.ErrNotFound)
	}
	return user, nil
}

// ListTablets returns every customer tablet identity
func (is *IdentityService) ListTablets(ctx context.Context) ([]tables.User, error) {
	return database.Query[tables.User](is.db).
		Where("role", tables.RoleCustomerTablet).
		OrderBy("username", database.ASC).
		All(ctx)
}

// ListActiveTablets returns customer tablets currently bound to a session
func (is *IdentityService) ListActiveTablets(ctx context.Context) ([]tables.User, error) {
	return database.Query[tables.User](is.db).
		Where("role", tables.RoleCustomerTablet).
		WhereNotNull("active_session").
		OrderBy("username", database.ASC).
		All(ctx)
}

// ActiveSessionTables maps each bound session id to its table number.
// Tablets whose username carries no table number are left out.
func (is *IdentityService) ActiveSessionTables(ctx context.Context) (map[uuid.UUID]int, error) {
	tablets, err := is.ListActiveTablets(ctx)
	if err != nil {
		return nil, err
	}

	tablesBySession := make(map[uuid.UUID]int, len(tablets))
	for _, tablet := range tablets {
		number, ok := lib.TableNumber(tablet.Username)
		if !ok || tablet.ActiveSession == nil {
			continue
		}
		tablesBySession[*tablet.ActiveSession] = number
	}
	return tablesBySession, nil
}

// bindSession sets the tablet's active session only if it has none
func bindSession(ctx context.Context, db bun.IDB, userId, sessionId uuid.UUID) error {
	res, err := db.NewUpdate().
		Model((*tables.User)(nil)).
		Set("active_session = ?", sessionId).
		Where("id = ?", userId).
		Where("active_session IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to bind session: %w", err)
	}
	if err := database.CheckAffected(res); err != nil {
		return fmt.Errorf("tablet already has an active session: %w", lib.ErrConflict)
	}
	return nil
}

// unbindSession clears the binding only if it still points at sessionId
func unbindSession(ctx context.Context, db bun.IDB, userId, sessionId uuid.UUID) error {
	_, err := db.NewUpdate().
		Model((*tables.User)(nil)).
		Set("active_session = NULL").
		Where("id = ?", userId).
		Where("active_session = ?", sessionId).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear active session: %w", err)
	}
	return nil
}

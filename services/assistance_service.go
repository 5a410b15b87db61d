package services

import (
	"context"
	"fmt"
	"slices"
	"time"
	"waitfaster_server/database"
	"waitfaster_server/lib"
	"waitfaster_server/structs"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// AssistanceService manages the single outstanding assistance request of a
// session and its archive of handled requests.
type AssistanceService struct {
	logger     *gecho.Logger
	db         *database.DB
	identity   *IdentityService
	projection *ProjectionService
	notifier   Notifier
	now        func() time.Time
}

func NewAssistanceService(
	logger *gecho.Logger,
	db *database.DB,
	identity *IdentityService,
	projection *ProjectionService,
	notifier Notifier,
) *AssistanceService {
	return &AssistanceService{
		logger:     logger,
		db:         db,
		identity:   identity,
		projection: projection,
		notifier:   notifier,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Raise opens a new request on the tablet's session
func (as *AssistanceService) Raise(ctx context.Context, tablet *tables.User, notes *string) (*structs.SessionResponse, error) {
	if tablet.ActiveSession == nil {
		return nil, fmt.Errorf("tablet %s has no active session: %w", tablet.Username, lib.ErrNotFound)
	}

	return as.mutate(ctx, *tablet.ActiveSession, func(details *tables.AssistanceRequestsDetails) error {
		if details.Current != nil {
			return fmt.Errorf("an assistance request is already open: %w", lib.ErrBadRequest)
		}
		details.Current = &tables.AssistanceRequest{
			StartTime: as.now(),
			Notes:     notes,
			Status:    tables.AssistanceRequestStatusOpen,
		}
		return nil
	})
}

// StaffUpdate moves the current request to target. Terminal statuses
// archive it.
func (as *AssistanceService) StaffUpdate(ctx context.Context, sessionId uuid.UUID, target tables.AssistanceRequestStatus) (*structs.SessionResponse, error) {
	return as.mutate(ctx, sessionId, func(details *tables.AssistanceRequestsDetails) error {
		if details.Current == nil {
			return fmt.Errorf("session %s has no open assistance request: %w", sessionId, lib.ErrNotFound)
		}
		if !CanTransitionAssistance(details.Current.Status, target) {
			return fmt.Errorf("cannot move request from %s to %s: %w", details.Current.Status, target, lib.ErrUnprocessableState)
		}

		details.Current.Status = target
		// cancelled is terminal too; leaving it current would block every later raise
		if target == tables.AssistanceRequestStatusClosed || target == tables.AssistanceRequestStatusCancelled {
			as.archive(details)
		}
		return nil
	})
}

// StaffReopen brings back the most recently ended request as handling
func (as *AssistanceService) StaffReopen(ctx context.Context, sessionId uuid.UUID) (*structs.SessionResponse, error) {
	return as.mutate(ctx, sessionId, func(details *tables.AssistanceRequestsDetails) error {
		if details.Current != nil {
			return fmt.Errorf("session %s already has an open assistance request: %w", sessionId, lib.ErrConflict)
		}
		if len(details.Handled) == 0 {
			return fmt.Errorf("session %s has no handled requests to reopen: %w", sessionId, lib.ErrBadRequest)
		}

		latest := 0
		for i, req := range details.Handled {
			if endedAfter(req, details.Handled[latest]) {
				latest = i
			}
		}

		reopened := details.Handled[latest]
		details.Handled = slices.Delete(details.Handled, latest, latest+1)
		reopened.EndTime = nil
		reopened.Status = tables.AssistanceRequestStatusHandling
		details.Current = &reopened
		return nil
	})
}

// TabletResolve lets the table withdraw or confirm its current request
func (as *AssistanceService) TabletResolve(ctx context.Context, tablet *tables.User) (*structs.SessionResponse, error) {
	if tablet.ActiveSession == nil {
		return nil, fmt.Errorf("tablet %s has no active session: %w", tablet.Username, lib.ErrNotFound)
	}

	return as.mutate(ctx, *tablet.ActiveSession, func(details *tables.AssistanceRequestsDetails) error {
		if details.Current == nil {
			return fmt.Errorf("no open assistance request: %w", lib.ErrNotFound)
		}

		if details.Current.Status == tables.AssistanceRequestStatusOpen {
			details.Current.Status = tables.AssistanceRequestStatusCancelled
		} else {
			details.Current.Status = tables.AssistanceRequestStatusClosed
		}
		as.archive(details)
		return nil
	})
}

// ListOpen returns the current request of every active session that has one
func (as *AssistanceService) ListOpen(ctx context.Context) ([]structs.OpenAssistanceRequest, error) {
	tablesBySession, err := as.identity.ActiveSessionTables(ctx)
	if err != nil {
		return nil, err
	}

	sessionIds := make([]uuid.UUID, 0, len(tablesBySession))
	for id := range tablesBySession {
		sessionIds = append(sessionIds, id)
	}

	sessions, err := database.Query[tables.Session](as.db).
		WhereIn("id", database.Values(sessionIds)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active sessions: %w", err)
	}

	open := make([]structs.OpenAssistanceRequest, 0)
	for _, session := range sessions {
		if session.AssistanceRequests.Current == nil {
			continue
		}
		open = append(open, structs.OpenAssistanceRequest{
			TableNumber: tablesBySession[session.Id],
			SessionId:   session.Id,
			Request:     *session.AssistanceRequests.Current,
		})
	}

	slices.SortFunc(open, func(a, b structs.OpenAssistanceRequest) int {
		return a.Request.StartTime.Compare(b.Request.StartTime)
	})
	return open, nil
}

func (as *AssistanceService) archive(details *tables.AssistanceRequestsDetails) {
	end := as.now()
	details.Current.EndTime = &end
	details.Handled = append(details.Handled, *details.Current)
	details.Current = nil
}

// mutate applies fn to the session's assistance block under the version
// check, then announces the new snapshot.
func (as *AssistanceService) mutate(ctx context.Context, sessionId uuid.UUID, fn func(*tables.AssistanceRequestsDetails) error) (*structs.SessionResponse, error) {
	var session *tables.Session

	err := database.WithOptimisticRetry(ctx, database.DefaultOptimisticAttempts, func() error {
		var err error
		session, err = database.FindByID[tables.Session](ctx, as.db, "id", sessionId)
		if err != nil {
			return err
		}
		if session == nil {
			return fmt.Errorf("session %s: %w", sessionId, lib.ErrNotFound)
		}

		if err := fn(&session.AssistanceRequests); err != nil {
			return err
		}

		expected := session.Version
		session.Version++
		return database.UpdateVersioned(ctx, as.db, session, expected)
	})
	if err != nil {
		return nil, err
	}

	// The write has landed; fall back to the bare session rather than fail.
	projection, err := as.projection.SessionProjection(ctx, session)
	if err != nil {
		as.logger.Error("Failed to build session projection",
			gecho.Field("session_id", sessionId),
			gecho.Field("error", err),
		)
		projection = sessionSnapshot(session, nil)
	}

	as.logger.Debug("Assistance request updated", gecho.Field("session_id", sessionId))
	as.notifier.Notify(ctx, structs.EventAssistanceRequestUpdate, projection)

	return projection, nil
}

// endedAfter orders handled requests by end time; a missing end sorts first.
func endedAfter(a, b tables.AssistanceRequest) bool {
	switch {
	case a.EndTime == nil:
		return false
	case b.EndTime == nil:
		return true
	default:
		return a.EndTime.After(*b.EndTime)
	}
}

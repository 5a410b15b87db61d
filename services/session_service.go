package services

import (
	"context"
	"fmt"
	"time"
	"waitfaster_server/database"
	"waitfaster_server/lib"
	"waitfaster_server/structs"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type SessionService struct {
	logger     *gecho.Logger
	db         *database.DB
	identity   *IdentityService
	projection *ProjectionService
	notifier   Notifier
	now        func() time.Time
}

func NewSessionService(
	logger *gecho.Logger,
	db *database.DB,
	identity *IdentityService,
	projection *ProjectionService,
	notifier Notifier,
) *SessionService {
	return &SessionService{
		logger:     logger,
		db:         db,
		identity:   identity,
		projection: projection,
		notifier:   notifier,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// StartSession opens a seating for the tablet and binds it. A tablet that
// is already bound gets ErrConflict, including when a concurrent start
// wins the race.
func (ss *SessionService) StartSession(ctx context.Context, tablet *tables.User) (*structs.SessionResponse, error) {
	if tablet.ActiveSession != nil {
		return nil, fmt.Errorf("tablet %s already has session %s: %w", tablet.Username, *tablet.ActiveSession, lib.ErrConflict)
	}

	session := &tables.Session{
		Id:               uuid.New(),
		Status:           tables.SessionStatusOpen,
		SessionStartTime: ss.now(),
		AssistanceRequests: tables.AssistanceRequestsDetails{
			Handled: []tables.AssistanceRequest{},
		},
	}

	err := database.Transaction(ctx, ss.db, func(ctx context.Context, tx bun.Tx) error {
		if err := database.Insert(ctx, tx, session); err != nil {
			return err
		}
		return bindSession(ctx, tx, tablet.Id, session.Id)
	})
	if err != nil {
		return nil, err
	}
	tablet.ActiveSession = &session.Id

	ss.logger.Info("Session started",
		gecho.Field("session_id", session.Id),
		gecho.Field("username", tablet.Username),
	)
	ss.notifier.Notify(ctx, structs.EventActivityPanelUpdated, nil)

	return ss.projection.SessionProjection(ctx, session)
}

// LockSession marks the tablet's session as awaiting payment. Locking twice
// is allowed; a closed session cannot be locked.
func (ss *SessionService) LockSession(ctx context.Context, tablet *tables.User) (*structs.SessionResponse, error) {
	if tablet.ActiveSession == nil {
		return nil, fmt.Errorf("tablet %s has no active session: %w", tablet.Username, lib.ErrNotFound)
	}

	var session *tables.Session
	err := database.WithOptimisticRetry(ctx, database.DefaultOptimisticAttempts, func() error {
		var err error
		session, err = ss.loadSession(ctx, ss.db, *tablet.ActiveSession)
		if err != nil {
			return err
		}

		switch session.Status {
		case tables.SessionStatusAwaitingPayment:
			return nil
		case tables.SessionStatusClosed:
			return fmt.Errorf("session %s is closed: %w", session.Id, lib.ErrUnprocessableState)
		}

		session.Status = tables.SessionStatusAwaitingPayment
		expected := session.Version
		session.Version++
		return database.UpdateVersioned(ctx, ss.db, session, expected)
	})
	if err != nil {
		return nil, err
	}

	ss.notifier.Notify(ctx, structs.EventActivityPanelUpdated, nil)
	return ss.projection.SessionProjection(ctx, session)
}

// CompleteSession closes the active session of the named table and frees the
// tablet for a new seating.
func (ss *SessionService) CompleteSession(ctx context.Context, tableUsername string) (*structs.CompleteSessionResponse, error) {
	tablet, err := ss.identity.GetUserByUsername(ctx, tableUsername)
	if err != nil {
		return nil, err
	}
	if tablet.ActiveSession == nil {
		return nil, fmt.Errorf("table %s has no active session: %w", tableUsername, lib.ErrNotFound)
	}
	sessionId := *tablet.ActiveSession

	var session *tables.Session
	err = database.WithOptimisticRetry(ctx, database.DefaultOptimisticAttempts, func() error {
		return database.Transaction(ctx, ss.db, func(ctx context.Context, tx bun.Tx) error {
			var err error
			session, err = ss.loadSession(ctx, tx, sessionId)
			if err != nil {
				return err
			}

			end := ss.now()
			session.Status = tables.SessionStatusClosed
			session.SessionEndTime = &end
			expected := session.Version
			session.Version++
			if err := database.UpdateVersioned(ctx, tx, session, expected); err != nil {
				return err
			}

			return unbindSession(ctx, tx, tablet.Id, sessionId)
		})
	})
	if err != nil {
		return nil, err
	}

	ss.logger.Info("Session completed",
		gecho.Field("session_id", sessionId),
		gecho.Field("username", tableUsername),
	)
	ss.notifier.Notify(ctx, structs.EventActivityPanelUpdated, nil)
	ss.notifier.Notify(ctx, structs.EventSessionCompleted, structs.SessionCompletedPayload{SessionId: sessionId.String()})

	return &structs.CompleteSessionResponse{
		UserId:           tablet.Id,
		Username:         tablet.Username,
		ActiveSession:    nil,
		SessionId:        session.Id,
		SessionStatus:    session.Status,
		SessionStartTime: session.SessionStartTime,
		SessionEndTime:   session.SessionEndTime,
	}, nil
}

// GetTableSession returns the tablet's current session, or nil without one
func (ss *SessionService) GetTableSession(ctx context.Context, tablet *tables.User) (*structs.SessionResponse, error) {
	if tablet.ActiveSession == nil {
		return nil, nil
	}

	session, err := ss.loadSession(ctx, ss.db, *tablet.ActiveSession)
	if err != nil {
		return nil, err
	}
	return ss.projection.SessionProjection(ctx, session)
}

func (ss *SessionService) loadSession(ctx context.Context, db bun.IDB, id uuid.UUID) (*tables.Session, error) {
	session, err := database.FindByID[tables.Session](ctx, db, "id", id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", id, lib.ErrNotFound)
	}
	return session, nil
}

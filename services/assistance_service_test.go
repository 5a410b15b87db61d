package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"waitfaster_server/database"
	"waitfaster_server/lib"
	"waitfaster_server/structs"
	"waitfaster_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaise(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tablet := f.tablet(t, "Table1")

	_, err := f.assistance.Raise(ctx, tablet, nil)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	session := f.startSession(t, tablet)
	tablet = f.reload(t, tablet)

	notes := "more napkins"
	raised, err := f.assistance.Raise(ctx, tablet, &notes)
	require.NoError(t, err)
	require.NotNil(t, raised.AssistanceRequests.Current)
	assert.Equal(t, tables.AssistanceRequestStatusOpen, raised.AssistanceRequests.Current.Status)
	assert.Equal(t, "more napkins", *raised.AssistanceRequests.Current.Notes)
	assert.Nil(t, raised.AssistanceRequests.Current.EndTime)

	last := f.notifier.last()
	assert.Equal(t, structs.EventAssistanceRequestUpdate, last.Name)
	payload, ok := last.Payload.(*structs.SessionResponse)
	require.True(t, ok)
	assert.Equal(t, session.Id, payload.Id)

	_, err = f.assistance.Raise(ctx, tablet, nil)
	assert.ErrorIs(t, err, lib.ErrBadRequest)
}

func TestStaffUpdate_CloseArchives(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tablet := f.tablet(t, "Table1")
	session := f.startSession(t, tablet)
	tablet = f.reload(t, tablet)

	raised, err := f.assistance.Raise(ctx, tablet, nil)
	require.NoError(t, err)
	started := raised.AssistanceRequests.Current.StartTime

	_, err = f.assistance.StaffUpdate(ctx, session.Id, tables.AssistanceRequestStatusClosed)
	assert.ErrorIs(t, err, lib.ErrUnprocessableState)

	handling, err := f.assistance.StaffUpdate(ctx, session.Id, tables.AssistanceRequestStatusHandling)
	require.NoError(t, err)
	assert.Equal(t, tables.AssistanceRequestStatusHandling, handling.AssistanceRequests.Current.Status)

	closed, err := f.assistance.StaffUpdate(ctx, session.Id, tables.AssistanceRequestStatusClosed)
	require.NoError(t, err)
	assert.Nil(t, closed.AssistanceRequests.Current)
	require.Len(t, closed.AssistanceRequests.Handled, 1)

	archived := closed.AssistanceRequests.Handled[0]
	assert.Equal(t, tables.AssistanceRequestStatusClosed, archived.Status)
	require.NotNil(t, archived.EndTime)
	assert.True(t, archived.StartTime.Equal(started))

	stored := f.storedSession(t, session.Id)
	assert.Nil(t, stored.AssistanceRequests.Current)
	assert.Len(t, stored.AssistanceRequests.Handled, 1)
}

func TestStaffUpdate_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.assistance.StaffUpdate(ctx, uuid.New(), tables.AssistanceRequestStatusHandling)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	session := f.startSession(t, f.tablet(t, "Table1"))
	_, err = f.assistance.StaffUpdate(ctx, session.Id, tables.AssistanceRequestStatusHandling)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestStaffReopen_PicksLatestEnded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.startSession(t, f.tablet(t, "Table1"))

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	at := func(minutes int) *time.Time {
		ts := base.Add(time.Duration(minutes) * time.Minute)
		return &ts
	}
	early, late, middle := "early", "late", "middle"

	stored := f.storedSession(t, session.Id)
	stored.AssistanceRequests.Handled = []tables.AssistanceRequest{
		{StartTime: base, EndTime: at(5), Notes: &early, Status: tables.AssistanceRequestStatusClosed},
		{StartTime: base, EndTime: at(30), Notes: &late, Status: tables.AssistanceRequestStatusClosed},
		{StartTime: base, EndTime: at(10), Notes: &middle, Status: tables.AssistanceRequestStatusCancelled},
	}
	stored.Version++
	require.NoError(t, database.UpdateVersioned(ctx, f.db, stored, stored.Version-1))

	reopened, err := f.assistance.StaffReopen(ctx, session.Id)
	require.NoError(t, err)

	current := reopened.AssistanceRequests.Current
	require.NotNil(t, current)
	assert.Equal(t, "late", *current.Notes)
	assert.Equal(t, tables.AssistanceRequestStatusHandling, current.Status)
	assert.Nil(t, current.EndTime)
	require.Len(t, reopened.AssistanceRequests.Handled, 2)
	for _, req := range reopened.AssistanceRequests.Handled {
		assert.NotEqual(t, "late", *req.Notes)
	}

	_, err = f.assistance.StaffReopen(ctx, session.Id)
	assert.ErrorIs(t, err, lib.ErrConflict)
}

func TestStaffReopen_NothingHandled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.assistance.StaffReopen(ctx, uuid.New())
	assert.ErrorIs(t, err, lib.ErrNotFound)

	session := f.startSession(t, f.tablet(t, "Table1"))
	_, err = f.assistance.StaffReopen(ctx, session.Id)
	assert.ErrorIs(t, err, lib.ErrBadRequest)
}

func TestTabletResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tablet := f.tablet(t, "Table1")
	session := f.startSession(t, tablet)
	tablet = f.reload(t, tablet)

	_, err := f.assistance.TabletResolve(ctx, tablet)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	// Withdrawn before staff picked it up
	_, err = f.assistance.Raise(ctx, tablet, nil)
	require.NoError(t, err)
	resolved, err := f.assistance.TabletResolve(ctx, tablet)
	require.NoError(t, err)
	require.Len(t, resolved.AssistanceRequests.Handled, 1)
	assert.Equal(t, tables.AssistanceRequestStatusCancelled, resolved.AssistanceRequests.Handled[0].Status)

	// Confirmed after staff handled it
	_, err = f.assistance.Raise(ctx, tablet, nil)
	require.NoError(t, err)
	_, err = f.assistance.StaffUpdate(ctx, session.Id, tables.AssistanceRequestStatusHandling)
	require.NoError(t, err)
	resolved, err = f.assistance.TabletResolve(ctx, tablet)
	require.NoError(t, err)
	require.Len(t, resolved.AssistanceRequests.Handled, 2)
	assert.Equal(t, tables.AssistanceRequestStatusClosed, resolved.AssistanceRequests.Handled[1].Status)
	assert.Nil(t, resolved.AssistanceRequests.Current)
}

func TestListOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	one := f.tablet(t, "Table1")
	two := f.tablet(t, "Table2")
	f.startSession(t, one)
	f.startSession(t, two)

	_, err := f.assistance.Raise(ctx, f.reload(t, two), nil)
	require.NoError(t, err)

	open, err := f.assistance.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, 2, open[0].TableNumber)
	assert.Equal(t, tables.AssistanceRequestStatusOpen, open[0].Request.Status)
}

func TestRaise_ConcurrentTablets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tablet := f.tablet(t, "Table1")
	session := f.startSession(t, tablet)
	tablet = f.reload(t, tablet)
	before := f.storedSession(t, session.Id).Version

	const callers = 4
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.assistance.Raise(ctx, tablet, nil); err != nil {
				assert.True(t, errors.Is(err, lib.ErrBadRequest) || errors.Is(err, lib.ErrConflict), err.Error())
				return
			}
			succeeded.Add(1)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, succeeded.Load())

	stored := f.storedSession(t, session.Id)
	require.NotNil(t, stored.AssistanceRequests.Current)
	assert.Empty(t, stored.AssistanceRequests.Handled)
	assert.Equal(t, before+1, stored.Version)
}

func TestRaise_ProjectionFailureStillAnnounces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tablet := f.tablet(t, "Table1")
	session := f.startSession(t, tablet)
	tablet = f.reload(t, tablet)

	// Orders can no longer be loaded; the session row still can.
	_, err := f.db.NewDropTable().Model((*tables.Order)(nil)).Exec(ctx)
	require.NoError(t, err)

	raised, err := f.assistance.Raise(ctx, tablet, nil)
	require.NoError(t, err)
	assert.Equal(t, session.Id, raised.Id)
	assert.Empty(t, raised.Orders)
	require.NotNil(t, raised.AssistanceRequests.Current)

	last := f.notifier.last()
	assert.Equal(t, structs.EventAssistanceRequestUpdate, last.Name)
	payload, ok := last.Payload.(*structs.SessionResponse)
	require.True(t, ok)
	require.NotNil(t, payload.AssistanceRequests.Current)

	stored := f.storedSession(t, session.Id)
	assert.NotNil(t, stored.AssistanceRequests.Current)
}

func TestStaffUpdate_CancelArchives(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tablet := f.tablet(t, "Table1")
	session := f.startSession(t, tablet)
	tablet = f.reload(t, tablet)

	_, err := f.assistance.Raise(ctx, tablet, nil)
	require.NoError(t, err)

	cancelled, err := f.assistance.StaffUpdate(ctx, session.Id, tables.AssistanceRequestStatusCancelled)
	require.NoError(t, err)
	assert.Nil(t, cancelled.AssistanceRequests.Current)
	require.Len(t, cancelled.AssistanceRequests.Handled, 1)
	assert.Equal(t, tables.AssistanceRequestStatusCancelled, cancelled.AssistanceRequests.Handled[0].Status)
	assert.NotNil(t, cancelled.AssistanceRequests.Handled[0].EndTime)

	// A new request can be raised afterwards
	_, err = f.assistance.Raise(ctx, tablet, nil)
	assert.NoError(t, err)
}

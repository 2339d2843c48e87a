package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatelog/internal/entity"
)

func sampleVisit(creator, date string) entity.Visit {
	return entity.Visit{
		CreatedBy:    creator,
		ArrivalDate:  date,
		ExpectedTime: str("09:30"),
		HostEmployee: "Example Employee",
		ObjectName:   "Warehouse",
		GuestName:    "Guest One",
	}
}

func TestVisitCreateBatchAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewVisitRepository(openTestDB(t))

	dates := []string{"2025-01-06", "2025-01-08", "2025-01-10"}
	count, err := repo.CreateBatch(ctx, sampleVisit("alice@x", "2025-01-06"), dates)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	visits, err := repo.ListFiltered(ctx, entity.VisitFilter{})
	require.NoError(t, err)
	require.Len(t, visits, 3)

	// Every copy is identical except the arrival date.
	seen := map[string]bool{}
	for _, v := range visits {
		assert.Equal(t, "alice@x", v.CreatedBy)
		assert.Equal(t, "Guest One", v.GuestName)
		assert.Equal(t, "09:30", *v.ExpectedTime)
		seen[v.ArrivalDate] = true
	}
	for _, d := range dates {
		assert.True(t, seen[d], "missing date %s", d)
	}
}

func TestVisitCreateBatchRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewVisitRepository(db)

	// A trigger rejects the third date mid-batch; the whole submission
	// must roll back.
	_, err := db.Exec(`CREATE TRIGGER reject_third BEFORE INSERT ON visits
		WHEN NEW.arrival_date = '2025-01-10'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	_, err = repo.CreateBatch(ctx, sampleVisit("alice@x", "2025-01-06"),
		[]string{"2025-01-06", "2025-01-08", "2025-01-10"})
	require.Error(t, err)

	visits, err := repo.ListFiltered(ctx, entity.VisitFilter{})
	require.NoError(t, err)
	assert.Empty(t, visits, "failed batch must not persist any date")
}

func TestVisitFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewVisitRepository(openTestDB(t))

	for _, v := range []entity.Visit{
		{CreatedBy: "a@x", ArrivalDate: "2025-02-01", ExpectedTime: str("10:00"), HostEmployee: "Ana Markovic", ObjectName: "Warehouse", GuestName: "Guest A"},
		{CreatedBy: "a@x", ArrivalDate: "2025-02-03", ExpectedTime: str("08:00"), HostEmployee: "Bojan Ilic", ObjectName: "Main building", GuestName: "Guest B"},
		{CreatedBy: "a@x", ArrivalDate: "2025-02-03", ExpectedTime: str("12:00"), HostEmployee: "Ana Markovic", ObjectName: "Main building", GuestName: "Other"},
	} {
		_, err := repo.Create(ctx, v)
		require.NoError(t, err)
	}

	// Substring match is case-insensitive.
	got, err := repo.ListFiltered(ctx, entity.VisitFilter{Host: "ana mark"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Inclusive date bounds.
	got, err = repo.ListFiltered(ctx, entity.VisitFilter{DateFrom: "2025-02-03", DateTo: "2025-02-03"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Fixed order: arrival_date DESC, then expected_time ascending.
	got, err = repo.ListFiltered(ctx, entity.VisitFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2025-02-03", got[0].ArrivalDate)
	assert.Equal(t, "08:00", *got[0].ExpectedTime)
	assert.Equal(t, "12:00", *got[1].ExpectedTime)
	assert.Equal(t, "2025-02-01", got[2].ArrivalDate)

	// Identical filters, identical result (no intervening writes).
	again, err := repo.ListFiltered(ctx, entity.VisitFilter{})
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestVisitGatehouseQueue(t *testing.T) {
	ctx := context.Background()
	repo := NewVisitRepository(openTestDB(t))

	today := "2025-05-05"
	open, err := repo.Create(ctx, sampleVisit("a@x", today))
	require.NoError(t, err)
	closed, err := repo.Create(ctx, sampleVisit("a@x", today))
	require.NoError(t, err)
	cancelled, err := repo.Create(ctx, sampleVisit("a@x", today))
	require.NoError(t, err)
	_, err = repo.Create(ctx, sampleVisit("a@x", "2025-05-06"))
	require.NoError(t, err)

	require.NoError(t, repo.MarkEntry(ctx, closed, "2025-05-05 08:00:00"))
	require.NoError(t, repo.MarkExit(ctx, closed, "2025-05-05 09:00:00"))
	require.NoError(t, repo.Cancel(ctx, cancelled, "a@x", entity.RoleEmployee))

	queue, err := repo.OpenForDate(ctx, today)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, open, queue[0].ID)
}

func TestVisitEntryExitStamps(t *testing.T) {
	ctx := context.Background()
	repo := NewVisitRepository(openTestDB(t))

	id, err := repo.Create(ctx, sampleVisit("a@x", "2025-05-05"))
	require.NoError(t, err)

	require.NoError(t, repo.MarkEntry(ctx, id, "2025-05-05 08:10:00"))
	require.NoError(t, repo.MarkExit(ctx, id, "2025-05-05 10:45:00"))

	v, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, v.EntryTime)
	require.NotNil(t, v.ExitTime)
	assert.Less(t, *v.EntryTime, *v.ExitTime)

	// Exit without a prior entry is accepted as-is.
	id2, err := repo.Create(ctx, sampleVisit("a@x", "2025-05-05"))
	require.NoError(t, err)
	require.NoError(t, repo.MarkExit(ctx, id2, "2025-05-05 11:00:00"))

	v2, err := repo.GetByID(ctx, id2)
	require.NoError(t, err)
	assert.Nil(t, v2.EntryTime)
	assert.NotNil(t, v2.ExitTime)
}

func TestVisitOwnershipGate(t *testing.T) {
	ctx := context.Background()
	repo := NewVisitRepository(openTestDB(t))

	id, err := repo.Create(ctx, sampleVisit("owner@x", "2025-05-05"))
	require.NoError(t, err)

	// Non-owner, non-admin: rejected, nothing changes.
	err = repo.Cancel(ctx, id, "intruder@x", entity.RoleSecurityChief)
	assert.ErrorIs(t, err, ErrNotOwner)
	err = repo.Reschedule(ctx, id, "2025-06-01", "intruder@x", entity.RoleGatehouse)
	assert.ErrorIs(t, err, ErrNotOwner)

	v, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-05", v.ArrivalDate)
	assert.False(t, v.Cancelled())

	// Admin may act on anyone's visit.
	require.NoError(t, repo.Reschedule(ctx, id, "2025-06-01", "admin@x", entity.RoleAdmin))
	// The creator may cancel their own.
	require.NoError(t, repo.Cancel(ctx, id, "owner@x", entity.RoleEmployee))

	v, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", v.ArrivalDate)
	assert.True(t, v.Cancelled())

	// Unknown id reports not-found.
	assert.ErrorIs(t, repo.Cancel(ctx, 9999, "owner@x", entity.RoleEmployee), ErrNotFound)
}

func TestVisitMyAnnouncementsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewVisitRepository(openTestDB(t))

	finished, err := repo.Create(ctx, sampleVisit("me@x", "2025-07-10"))
	require.NoError(t, err)
	openOld, err := repo.Create(ctx, sampleVisit("me@x", "2025-07-01"))
	require.NoError(t, err)
	openNew, err := repo.Create(ctx, sampleVisit("me@x", "2025-07-08"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, sampleVisit("other@x", "2025-07-09"))
	require.NoError(t, err)

	require.NoError(t, repo.MarkExit(ctx, finished, "2025-07-10 12:00:00"))

	got, err := repo.ListByCreator(ctx, "me@x", "", "")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Open visits first (newest date leading), exited ones last.
	assert.Equal(t, openNew, got[0].ID)
	assert.Equal(t, openOld, got[1].ID)
	assert.Equal(t, finished, got[2].ID)

	// Date range narrows the list.
	got, err = repo.ListByCreator(ctx, "me@x", "2025-07-05", "2025-07-09")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, openNew, got[0].ID)
}

func TestVisitUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewVisitRepository(openTestDB(t))

	id, err := repo.Create(ctx, sampleVisit("a@x", "2025-05-05"))
	require.NoError(t, err)

	v, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	v.GuestName = "Renamed Guest"
	v.PersonsCount = intp(4)
	require.NoError(t, repo.Update(ctx, v))

	v, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Guest", v.GuestName)
	require.NotNil(t, v.PersonsCount)
	assert.Equal(t, 4, *v.PersonsCount)

	missing := v
	missing.ID = 9999
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func intp(i int) *int { return &i }

package projection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/availability"
	"github.com/m04kA/SMC-ClubBookingService/internal/calendar"
	"github.com/m04kA/SMC-ClubBookingService/internal/capacity"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/pkg/ptr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepos struct {
	personal []*domain.PersonalSession
	classes  []*domain.ClassSession
	windows  []*domain.AvailabilityWindow
	regs     []*domain.ClassRegistration
	err      error
}

func (s *stubRepos) ListPersonal(context.Context, domain.ScheduleFilter) ([]*domain.PersonalSession, error) {
	return s.personal, s.err
}

func (s *stubRepos) ListClass(context.Context, domain.ScheduleFilter) ([]*domain.ClassSession, error) {
	return s.classes, nil
}

func (s *stubRepos) ListAll(context.Context) ([]*domain.AvailabilityWindow, error) {
	return s.windows, nil
}

func (s *stubRepos) ListForScheduledSessions(context.Context) ([]*domain.ClassRegistration, error) {
	return s.regs, nil
}

type readOnlyTx struct{}

func (readOnlyTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func hours(from, to int) domain.Interval {
	return domain.Interval{Start: day.Add(time.Duration(from) * time.Hour), End: day.Add(time.Duration(to) * time.Hour)}
}

type projections struct {
	trainers *calendar.Calendar
	rooms    *calendar.Calendar
	store    *availability.Store
	tracker  *capacity.Tracker
}

func newRebuilder(repos *stubRepos) (*Rebuilder, projections) {
	p := projections{
		trainers: calendar.New(domain.ResourceTrainer),
		rooms:    calendar.New(domain.ResourceRoom),
		store:    availability.NewStore(),
		tracker:  capacity.NewTracker(),
	}
	r := NewRebuilder(repos, repos, repos, p.trainers, p.rooms, p.store, p.tracker, readOnlyTx{}, nopLogger{})
	return r, p
}

func TestRebuild(t *testing.T) {
	repos := &stubRepos{
		personal: []*domain.PersonalSession{
			{ID: 1, TrainerID: 7, RoomID: ptr.Ptr(int64(1)), Range: hours(10, 11), Status: domain.StatusScheduled},
			{ID: 2, TrainerID: 7, Range: hours(11, 12), Status: domain.StatusCompleted},
		},
		classes: []*domain.ClassSession{
			{ID: 3, ClassID: 1, TrainerID: ptr.Ptr(int64(8)), RoomID: ptr.Ptr(int64(1)), Range: hours(18, 19), Capacity: 3, Status: domain.StatusScheduled},
			{ID: 4, ClassID: 1, RoomID: ptr.Ptr(int64(1)), Range: hours(8, 9), Capacity: 3, Status: domain.StatusCompleted},
		},
		windows: []*domain.AvailabilityWindow{
			{ID: 1, TrainerID: 7, Range: hours(9, 13)},
		},
		regs: []*domain.ClassRegistration{
			{ClassSessionID: 3, MemberID: 100},
			{ClassSessionID: 3, MemberID: 101},
		},
	}
	r, p := newRebuilder(repos)

	// остатки прошлой проекции должны быть вытеснены
	require.NoError(t, p.trainers.Commit(99, hours(1, 2), domain.BookingRef{Kind: domain.KindPersonal, ID: 99}))

	stats, err := r.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PersonalSessions)
	assert.Equal(t, 2, stats.ClassSessions)
	assert.Equal(t, 1, stats.OpenClasses)
	assert.Equal(t, 2, stats.Registrations)

	assert.Zero(t, p.trainers.Len(99))
	assert.Equal(t, 2, p.trainers.Len(7))
	assert.Equal(t, 1, p.trainers.Len(8))
	assert.Equal(t, 3, p.rooms.Len(1))
	assert.True(t, p.store.IsAvailable(7, hours(9, 10)))

	registered, capacity, ok := p.tracker.Count(3)
	require.True(t, ok)
	assert.Equal(t, 2, registered)
	assert.Equal(t, 3, capacity)
	assert.True(t, p.tracker.IsRegistered(3, 101))

	_, _, ok = p.tracker.Count(4)
	assert.False(t, ok)
}

func TestRebuild_OverlappingStoredBookings(t *testing.T) {
	repos := &stubRepos{
		personal: []*domain.PersonalSession{
			{ID: 1, TrainerID: 7, Range: hours(10, 11), Status: domain.StatusScheduled},
			{ID: 2, TrainerID: 7, Range: hours(10, 12), Status: domain.StatusScheduled},
		},
	}
	r, _ := newRebuilder(repos)

	_, err := r.Rebuild(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRebuild_OverbookedClass(t *testing.T) {
	repos := &stubRepos{
		classes: []*domain.ClassSession{
			{ID: 3, ClassID: 1, Range: hours(18, 19), Capacity: 1, Status: domain.StatusScheduled},
		},
		regs: []*domain.ClassRegistration{
			{ClassSessionID: 3, MemberID: 100},
			{ClassSessionID: 3, MemberID: 101},
		},
	}
	r, _ := newRebuilder(repos)

	_, err := r.Rebuild(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRebuild_LoadError(t *testing.T) {
	r, _ := newRebuilder(&stubRepos{err: errors.New("connection refused")})

	_, err := r.Rebuild(context.Background())
	assert.ErrorIs(t, err, ErrLoad)
}

package booking

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/availability"
	"github.com/m04kA/SMC-ClubBookingService/internal/calendar"
	"github.com/m04kA/SMC-ClubBookingService/internal/capacity"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	classRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/class"
	sessionRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ClubBookingService/pkg/keylock"
	"github.com/m04kA/SMC-ClubBookingService/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func span(fromH, fromM, toH, toM int) domain.Interval {
	return domain.Interval{Start: at(fromH, fromM), End: at(toH, toM)}
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSessionRepo struct {
	mu       sync.Mutex
	nextID   int64
	personal map[int64]*domain.PersonalSession
	class    map[int64]*domain.ClassSession
	creates  int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		personal: make(map[int64]*domain.PersonalSession),
		class:    make(map[int64]*domain.ClassSession),
	}
}

func (r *fakeSessionRepo) CreatePersonal(_ context.Context, s *domain.PersonalSession) (*domain.PersonalSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.creates++
	created := *s
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	r.personal[created.ID] = &created
	out := created
	return &out, nil
}

func (r *fakeSessionRepo) GetPersonalByID(_ context.Context, id int64) (*domain.PersonalSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.personal[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	out := *s
	return &out, nil
}

func (r *fakeSessionRepo) UpdatePersonalStatus(_ context.Context, id int64, status domain.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.personal[id]
	if !ok {
		return sessionRepo.ErrSessionNotFound
	}
	s.Status = status
	return nil
}

func (r *fakeSessionRepo) CreateClass(_ context.Context, s *domain.ClassSession) (*domain.ClassSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.creates++
	created := *s
	created.ID = r.nextID
	r.class[created.ID] = &created
	out := created
	return &out, nil
}

func (r *fakeSessionRepo) lastID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextID
}

func (r *fakeSessionRepo) GetClassByID(_ context.Context, id int64) (*domain.ClassSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.class[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	out := *s
	return &out, nil
}

func (r *fakeSessionRepo) UpdateClassStatus(_ context.Context, id int64, status domain.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.class[id]
	if !ok {
		return sessionRepo.ErrSessionNotFound
	}
	s.Status = status
	return nil
}

type fakeClassRepo map[int64]*domain.Class

func (r fakeClassRepo) GetByID(_ context.Context, id int64) (*domain.Class, error) {
	c, ok := r[id]
	if !ok {
		return nil, classRepo.ErrClassNotFound
	}
	return c, nil
}

// fakeTxManager выполняет fn без БД; commitErr имитирует сбой фиксации после успешного fn
// beforeCommit вызывается между успешным fn и фиксацией
type fakeTxManager struct {
	beginErr     error
	commitErr    error
	beforeCommit func()
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	if err := fn(ctx); err != nil {
		return err
	}
	if m.beforeCommit != nil {
		m.beforeCommit()
	}
	return m.commitErr
}

type fixture struct {
	coord    *Coordinator
	repo     *fakeSessionRepo
	trainers *calendar.Calendar
	rooms    *calendar.Calendar
	avail    *availability.Store
	tracker  *capacity.Tracker
	locker   *keylock.Locker
	tx       *fakeTxManager
	metrics  *metrics.Metrics
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newFakeSessionRepo(),
		trainers: calendar.New(domain.ResourceTrainer),
		rooms:    calendar.New(domain.ResourceRoom),
		avail:    availability.NewStore(),
		tracker:  capacity.NewTracker(),
		locker:   keylock.New(200 * time.Millisecond),
		tx:       &fakeTxManager{},
		metrics:  metrics.NewWithRegisterer("test", prometheus.NewRegistry()),
	}
	classes := fakeClassRepo{
		1: {ID: 1, Name: "Yoga", DefaultCapacity: 12},
		2: {ID: 2, Name: "Broken", DefaultCapacity: 0},
	}
	f.coord = NewCoordinator(f.repo, classes, f.trainers, f.rooms, f.avail, f.tracker,
		f.locker, f.tx, f.metrics, nopLogger{})
	return f
}

func (f *fixture) window(id, trainerID int64, iv domain.Interval) {
	f.avail.Put(domain.AvailabilityWindow{ID: id, TrainerID: trainerID, Range: iv})
}

type fakeRegistrationRepo struct {
	mu      sync.Mutex
	members map[[2]int64]bool
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{members: make(map[[2]int64]bool)}
}

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *domain.ClassRegistration) (*domain.ClassRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[[2]int64{reg.ClassSessionID, reg.MemberID}] = true
	out := *reg
	return &out, nil
}

func (r *fakeRegistrationRepo) Delete(_ context.Context, sessionID, memberID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, [2]int64{sessionID, memberID})
	return nil
}

package registration

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/capacity"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	registrationRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/registration"
	sessionRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ClubBookingService/pkg/keylock"
	"github.com/m04kA/SMC-ClubBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/txmanager"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type MockSessionRepo struct{ mock.Mock }
type MockRegistrationRepo struct{ mock.Mock }

func (m *MockSessionRepo) GetClassByID(ctx context.Context, id int64) (*domain.ClassSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassSession), args.Error(1)
}

func (m *MockRegistrationRepo) Create(ctx context.Context, reg *domain.ClassRegistration) (*domain.ClassRegistration, error) {
	args := m.Called(ctx, reg)
	if fn, ok := args.Get(0).(func(context.Context, *domain.ClassRegistration) *domain.ClassRegistration); ok {
		return fn(ctx, reg), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassRegistration), args.Error(1)
}

func (m *MockRegistrationRepo) Delete(ctx context.Context, sessionID, memberID int64) error {
	return m.Called(ctx, sessionID, memberID).Error(0)
}

type passTxManager struct{ err error }

func (m passTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return m.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const sessionID int64 = 31

func scheduled(capacity int) *domain.ClassSession {
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	return &domain.ClassSession{
		ID:       sessionID,
		ClassID:  1,
		Range:    domain.Interval{Start: start, End: start.Add(time.Hour)},
		Capacity: capacity,
		Status:   domain.StatusScheduled,
	}
}

type setup struct {
	coord    *Coordinator
	sessions *MockSessionRepo
	regs     *MockRegistrationRepo
	tracker  *capacity.Tracker
	locker   *keylock.Locker
	metrics  *metrics.Metrics
}

func newSetup(tx TransactionManager) *setup {
	s := &setup{
		sessions: new(MockSessionRepo),
		regs:     new(MockRegistrationRepo),
		tracker:  capacity.NewTracker(),
		locker:   keylock.New(100 * time.Millisecond),
		metrics:  metrics.NewWithRegisterer("test", prometheus.NewRegistry()),
	}
	s.coord = NewCoordinator(s.sessions, s.regs, s.tracker, s.locker, tx, s.metrics, nopLogger{})
	return s
}

func persisted(_ context.Context, reg *domain.ClassRegistration) *domain.ClassRegistration {
	out := *reg
	out.RegisteredAt = time.Now()
	return &out
}

func TestRegister_FillsUpToCapacity(t *testing.T) {
	s := newSetup(passTxManager{})
	ctx := context.Background()
	require.NoError(t, s.tracker.Open(sessionID, 2))

	s.sessions.On("GetClassByID", mock.Anything, sessionID).Return(scheduled(2), nil)
	s.regs.On("Create", mock.Anything, mock.AnythingOfType("*domain.ClassRegistration")).
		Return(func(ctx context.Context, reg *domain.ClassRegistration) *domain.ClassRegistration {
			return persisted(ctx, reg)
		}, nil)

	reg, err := s.coord.Register(ctx, sessionID, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), reg.MemberID)
	assert.Equal(t, sessionID, reg.ClassSessionID)

	_, err = s.coord.Register(ctx, sessionID, 100)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = s.coord.Register(ctx, sessionID, 101)
	require.NoError(t, err)

	_, err = s.coord.Register(ctx, sessionID, 102)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	registered, _, _ := s.tracker.Count(sessionID)
	assert.Equal(t, 2, registered)
	s.regs.AssertNumberOfCalls(t, "Create", 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.BookingDecisions.WithLabelValues(opRegister, metrics.OutcomeRejected)))
}

func TestRegister_SessionState(t *testing.T) {
	s := newSetup(passTxManager{})
	ctx := context.Background()

	cancelled := scheduled(5)
	cancelled.ID = 40
	cancelled.Status = domain.StatusCancelled

	s.sessions.On("GetClassByID", mock.Anything, int64(40)).Return(cancelled, nil)
	s.sessions.On("GetClassByID", mock.Anything, int64(41)).Return(nil, sessionRepo.ErrSessionNotFound)

	_, err := s.coord.Register(ctx, 40, 100)
	assert.ErrorIs(t, err, ErrSessionNotScheduled)

	_, err = s.coord.Register(ctx, 41, 100)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = s.coord.Register(ctx, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidInput)

	s.regs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_UntrackedScheduledSessionIsInvariantViolation(t *testing.T) {
	s := newSetup(passTxManager{})
	s.sessions.On("GetClassByID", mock.Anything, sessionID).Return(scheduled(5), nil)

	_, err := s.coord.Register(context.Background(), sessionID, 100)
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.False(t, IsRetryable(err))
}

func TestRegister_StorageFailureFreesSeat(t *testing.T) {
	s := newSetup(passTxManager{})
	ctx := context.Background()
	require.NoError(t, s.tracker.Open(sessionID, 1))

	s.sessions.On("GetClassByID", mock.Anything, sessionID).Return(scheduled(1), nil)
	s.regs.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()

	_, err := s.coord.Register(ctx, sessionID, 100)
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, s.tracker.IsRegistered(sessionID, 100))

	s.regs.On("Create", mock.Anything, mock.Anything).Return(nil, registrationRepo.ErrDuplicateRegistration).Once()
	_, err = s.coord.Register(ctx, sessionID, 100)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.False(t, s.tracker.IsRegistered(sessionID, 100))
}

func TestRegister_SerializationFailureIsBusy(t *testing.T) {
	s := newSetup(passTxManager{err: txmanager.ErrSerialization})
	require.NoError(t, s.tracker.Open(sessionID, 1))

	s.sessions.On("GetClassByID", mock.Anything, sessionID).Return(scheduled(1), nil)
	s.regs.On("Create", mock.Anything, mock.Anything).
		Return(&domain.ClassRegistration{ClassSessionID: sessionID, MemberID: 100}, nil)

	_, err := s.coord.Register(context.Background(), sessionID, 100)
	assert.ErrorIs(t, err, ErrBusy)
	assert.True(t, IsRetryable(err))
	assert.False(t, s.tracker.IsRegistered(sessionID, 100))
	assert.Zero(t, testutil.ToFloat64(s.metrics.LockTimeouts.WithLabelValues(opRegister)))
}

func TestRegister_LockTimeoutIsBusy(t *testing.T) {
	s := newSetup(passTxManager{})
	unlock, err := s.locker.Lock(context.Background(), keylock.Key(domain.LockKindClassSession, sessionID))
	require.NoError(t, err)
	defer unlock()

	_, err = s.coord.Register(context.Background(), sessionID, 100)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.LockTimeouts.WithLabelValues(opRegister)))
	s.sessions.AssertNotCalled(t, "GetClassByID", mock.Anything, mock.Anything)
}

func TestUnregister(t *testing.T) {
	s := newSetup(passTxManager{})
	ctx := context.Background()
	require.NoError(t, s.tracker.Open(sessionID, 1, 100))

	s.sessions.On("GetClassByID", mock.Anything, sessionID).Return(scheduled(1), nil)
	s.regs.On("Delete", mock.Anything, sessionID, int64(100)).Return(nil).Once()

	require.NoError(t, s.coord.Unregister(ctx, sessionID, 100))
	assert.False(t, s.tracker.IsRegistered(sessionID, 100))

	err := s.coord.Unregister(ctx, sessionID, 100)
	assert.ErrorIs(t, err, ErrNotRegistered)

	// освободившееся место снова доступно
	s.regs.On("Create", mock.Anything, mock.Anything).
		Return(&domain.ClassRegistration{ClassSessionID: sessionID, MemberID: 101}, nil)
	_, err = s.coord.Register(ctx, sessionID, 101)
	require.NoError(t, err)

	s.regs.AssertNumberOfCalls(t, "Delete", 1)
}

func TestRegister_ConcurrentRequestsRespectCapacity(t *testing.T) {
	const (
		seats    = 10
		requests = 60
	)

	s := newSetup(passTxManager{})
	s.locker = keylock.New(5 * time.Second)
	s.coord.locker = s.locker
	require.NoError(t, s.tracker.Open(sessionID, seats))

	var stored atomic.Int64
	s.sessions.On("GetClassByID", mock.Anything, sessionID).Return(scheduled(seats), nil)
	s.regs.On("Create", mock.Anything, mock.Anything).
		Return(func(_ context.Context, reg *domain.ClassRegistration) *domain.ClassRegistration {
			stored.Add(1)
			return reg
		}, nil)

	var accepted, exceeded atomic.Int64
	var g errgroup.Group
	for i := 0; i < requests; i++ {
		memberID := int64(1000 + i)
		g.Go(func() error {
			_, err := s.coord.Register(context.Background(), sessionID, memberID)
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, ErrCapacityExceeded):
				exceeded.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(seats), accepted.Load())
	assert.Equal(t, int64(requests-seats), exceeded.Load())
	assert.Equal(t, int64(seats), stored.Load())

	registered, capacity, ok := s.tracker.Count(sessionID)
	require.True(t, ok)
	assert.Equal(t, capacity, registered)
}

// Package booking commits personal and class sessions against the trainer and room calendars.
//
// Every operation that validates and then commits takes the per-resource locks of the
// resources it touches first, so check and commit are atomic with respect to any other
// operation on the same trainer or room.
package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/pkg/keylock"
	"github.com/m04kA/SMC-ClubBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/txmanager"
)

// Coordinator координатор бронирований тренеров и залов
type Coordinator struct {
	sessionRepo  SessionRepository
	classRepo    ClassRepository
	trainers     Calendar
	rooms        Calendar
	availability AvailabilityStore
	tracker      CapacityTracker
	locker       Locker
	txManager    TransactionManager
	metrics      MetricsRecorder
	logger       Logger
}

// NewCoordinator создает новый экземпляр координатора
func NewCoordinator(
	sessionRepo SessionRepository,
	classRepo ClassRepository,
	trainers Calendar,
	rooms Calendar,
	availability AvailabilityStore,
	tracker CapacityTracker,
	locker Locker,
	txManager TransactionManager,
	recorder MetricsRecorder,
	logger Logger,
) *Coordinator {
	return &Coordinator{
		sessionRepo:  sessionRepo,
		classRepo:    classRepo,
		trainers:     trainers,
		rooms:        rooms,
		availability: availability,
		tracker:      tracker,
		locker:       locker,
		txManager:    txManager,
		metrics:      recorder,
		logger:       logger,
	}
}

// resources набор ресурсов, занимаемых одной бронью
type resources struct {
	trainerID *int64
	roomID    *int64
}

func (r resources) lockKeys(extra ...string) []string {
	keys := make([]string, 0, 2+len(extra))
	if r.trainerID != nil {
		keys = append(keys, keylock.Key(domain.LockKindTrainer, *r.trainerID))
	}
	if r.roomID != nil {
		keys = append(keys, keylock.Key(domain.LockKindRoom, *r.roomID))
	}
	return append(keys, extra...)
}

// lock захватывает блокировки ресурсов; таймаут превращается в ErrBusy
func (c *Coordinator) lock(ctx context.Context, op string, keys []string) (func(), error) {
	unlock, err := c.locker.Lock(ctx, keys...)
	if err != nil {
		if errors.Is(err, keylock.ErrTimeout) {
			c.logger.Warn("%s: lock timeout on %v: %v", op, keys, err)
			c.metrics.RecordLockTimeout(op)
			return nil, fmt.Errorf("%w: %v", ErrBusy, err)
		}
		c.logger.Warn("%s: lock aborted on %v: %v", op, keys, err)
		return nil, fmt.Errorf("%w: lock aborted: %v", ErrInternal, err)
	}
	return unlock, nil
}

// checkConflicts проверяет пересечения с календарями тренеров и залов
// Порядок проверок фиксирован: сначала тренер, затем зал
func (c *Coordinator) checkConflicts(res resources, interval domain.Interval) error {
	if res.trainerID != nil && c.trainers.QueryOverlap(*res.trainerID, interval) {
		return fmt.Errorf("%w: trainer=%d, range=%s", ErrTrainerDoubleBooked, *res.trainerID, interval)
	}
	if res.roomID != nil && c.rooms.QueryOverlap(*res.roomID, interval) {
		return fmt.Errorf("%w: room=%d, range=%s", ErrRoomDoubleBooked, *res.roomID, interval)
	}
	return nil
}

// commit фиксирует бронь во всех календарях или не фиксирует нигде
// Конфликт на этом этапе означает, что проверка и коммит разошлись, то есть нарушен инвариант
func (c *Coordinator) commit(res resources, interval domain.Interval, ref domain.BookingRef) error {
	if res.trainerID != nil {
		if err := c.trainers.Commit(*res.trainerID, interval, ref); err != nil {
			return fmt.Errorf("%w: trainer=%d, ref=%s: %v", ErrInvariantViolation, *res.trainerID, ref, err)
		}
	}
	if res.roomID != nil {
		if err := c.rooms.Commit(*res.roomID, interval, ref); err != nil {
			if res.trainerID != nil {
				c.trainers.Release(*res.trainerID, ref)
			}
			return fmt.Errorf("%w: room=%d, ref=%s: %v", ErrInvariantViolation, *res.roomID, ref, err)
		}
	}
	return nil
}

// release удаляет бронь из календарей
func (c *Coordinator) release(op string, res resources, ref domain.BookingRef) {
	if res.trainerID != nil && !c.trainers.Release(*res.trainerID, ref) {
		c.logger.Warn("%s: %s was not committed in trainer calendar id=%d", op, ref, *res.trainerID)
	}
	if res.roomID != nil && !c.rooms.Release(*res.roomID, ref) {
		c.logger.Warn("%s: %s was not committed in room calendar id=%d", op, ref, *res.roomID)
	}
}

// txError приводит ошибку транзакции к ошибкам пакета
func txError(err error) error {
	switch {
	case errors.Is(err, txmanager.ErrSerialization):
		return fmt.Errorf("%w: %v", ErrBusy, err)
	case errors.Is(err, ErrInvariantViolation), errors.Is(err, ErrInternal):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// finish учитывает исход операции в метриках
func (c *Coordinator) finish(op string, err error) {
	c.metrics.RecordDecision(op, outcome(err))
	switch {
	case err == nil:
	case errors.Is(err, ErrInvariantViolation):
		c.logger.Error("%s: %v", op, err)
	case errors.Is(err, ErrInternal):
		c.logger.Error("%s: %v", op, err)
	default:
		c.logger.Warn("%s: rejected: %v", op, err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case IsRetryable(err):
		return metrics.OutcomeBusy
	case IsRejection(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

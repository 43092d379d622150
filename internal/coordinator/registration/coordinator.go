// Package registration admits members into class sessions without ever exceeding capacity.
package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClubBookingService/internal/capacity"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	registrationRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/registration"
	sessionRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ClubBookingService/pkg/keylock"
	"github.com/m04kA/SMC-ClubBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/txmanager"
)

const (
	opRegister   = "register_for_class"
	opUnregister = "unregister_from_class"
)

// Coordinator координатор записи на групповые занятия
type Coordinator struct {
	sessionRepo      SessionRepository
	registrationRepo RegistrationRepository
	tracker          CapacityTracker
	locker           Locker
	txManager        TransactionManager
	metrics          MetricsRecorder
	logger           Logger
}

// NewCoordinator создает новый экземпляр координатора
func NewCoordinator(
	sessionRepo SessionRepository,
	registrationRepo RegistrationRepository,
	tracker CapacityTracker,
	locker Locker,
	txManager TransactionManager,
	recorder MetricsRecorder,
	logger Logger,
) *Coordinator {
	return &Coordinator{
		sessionRepo:      sessionRepo,
		registrationRepo: registrationRepo,
		tracker:          tracker,
		locker:           locker,
		txManager:        txManager,
		metrics:          recorder,
		logger:           logger,
	}
}

// Register записывает участника на групповое занятие
// Повторная запись проверяется раньше вместимости
func (c *Coordinator) Register(ctx context.Context, sessionID, memberID int64) (result *domain.ClassRegistration, err error) {
	defer func() { c.finish(opRegister, err) }()

	if err := validateIDs(sessionID, memberID); err != nil {
		return nil, err
	}
	c.logger.Info("Register: session=%d, member=%d", sessionID, memberID)

	unlock, err := c.lockSession(ctx, opRegister, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := c.ensureScheduled(ctx, sessionID); err != nil {
		return nil, err
	}

	if err := c.tracker.TryRegister(sessionID, memberID); err != nil {
		return nil, trackerError(sessionID, memberID, err)
	}

	err = c.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := c.registrationRepo.Create(txCtx, &domain.ClassRegistration{
			ClassSessionID: sessionID,
			MemberID:       memberID,
		})
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		c.rollbackSeat(sessionID, memberID)
		if errors.Is(err, registrationRepo.ErrDuplicateRegistration) {
			c.logger.Warn("Register: member=%d already stored for session=%d but missing in tracker", memberID, sessionID)
			return nil, fmt.Errorf("%w: session=%d, member=%d", ErrAlreadyRegistered, sessionID, memberID)
		}
		return nil, txError(err)
	}

	return result, nil
}

// Unregister отменяет запись участника и освобождает место
func (c *Coordinator) Unregister(ctx context.Context, sessionID, memberID int64) (err error) {
	defer func() { c.finish(opUnregister, err) }()

	if err := validateIDs(sessionID, memberID); err != nil {
		return err
	}
	c.logger.Info("Unregister: session=%d, member=%d", sessionID, memberID)

	unlock, err := c.lockSession(ctx, opUnregister, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := c.ensureScheduled(ctx, sessionID); err != nil {
		return err
	}

	if !c.tracker.IsRegistered(sessionID, memberID) {
		return fmt.Errorf("%w: session=%d, member=%d", ErrNotRegistered, sessionID, memberID)
	}

	err = c.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return c.registrationRepo.Delete(txCtx, sessionID, memberID)
	})
	if err != nil {
		if errors.Is(err, registrationRepo.ErrRegistrationNotFound) {
			return fmt.Errorf("%w: tracker holds member=%d of session=%d missing in storage",
				ErrInvariantViolation, memberID, sessionID)
		}
		return txError(err)
	}

	if err := c.tracker.Release(sessionID, memberID); err != nil {
		return fmt.Errorf("%w: release seat: %v", ErrInvariantViolation, err)
	}
	return nil
}

func (c *Coordinator) lockSession(ctx context.Context, op string, sessionID int64) (func(), error) {
	key := keylock.Key(domain.LockKindClassSession, sessionID)
	unlock, err := c.locker.Lock(ctx, key)
	if err != nil {
		if errors.Is(err, keylock.ErrTimeout) {
			c.logger.Warn("%s: lock timeout on %s: %v", op, key, err)
			c.metrics.RecordLockTimeout(op)
			return nil, fmt.Errorf("%w: %v", ErrBusy, err)
		}
		return nil, fmt.Errorf("%w: lock aborted: %v", ErrInternal, err)
	}
	return unlock, nil
}

// ensureScheduled проверяет, что занятие существует и ещё принимает запись
func (c *Coordinator) ensureScheduled(ctx context.Context, sessionID int64) error {
	session, err := c.sessionRepo.GetClassByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return fmt.Errorf("%w: class session id=%d", ErrSessionNotFound, sessionID)
		}
		return fmt.Errorf("%w: failed to get class session: %v", ErrInternal, err)
	}
	if !session.IsScheduled() {
		return fmt.Errorf("%w: session id=%d has status %s", ErrSessionNotScheduled, sessionID, session.Status)
	}
	return nil
}

func (c *Coordinator) rollbackSeat(sessionID, memberID int64) {
	if err := c.tracker.Release(sessionID, memberID); err != nil {
		c.logger.Error("Register: failed to roll back seat session=%d, member=%d: %v", sessionID, memberID, err)
	}
}

func (c *Coordinator) finish(op string, err error) {
	c.metrics.RecordDecision(op, outcome(err))
	switch {
	case err == nil:
	case errors.Is(err, ErrInvariantViolation), errors.Is(err, ErrInternal):
		c.logger.Error("%s: %v", op, err)
	default:
		c.logger.Warn("%s: rejected: %v", op, err)
	}
}

// trackerError приводит ошибки трекера к ошибкам пакета
// Открытое в БД занятие, неизвестное трекеру, означает расхождение проекции
func trackerError(sessionID, memberID int64, err error) error {
	switch {
	case errors.Is(err, capacity.ErrAlreadyRegistered):
		return fmt.Errorf("%w: session=%d, member=%d", ErrAlreadyRegistered, sessionID, memberID)
	case errors.Is(err, capacity.ErrCapacityExceeded):
		return fmt.Errorf("%w: session=%d", ErrCapacityExceeded, sessionID)
	case errors.Is(err, capacity.ErrUnknownSession):
		return fmt.Errorf("%w: scheduled session id=%d is not tracked", ErrInvariantViolation, sessionID)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func txError(err error) error {
	if errors.Is(err, txmanager.ErrSerialization) {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
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

func validateIDs(sessionID, memberID int64) error {
	if sessionID <= 0 {
		return fmt.Errorf("%w: session_id must be positive", ErrInvalidInput)
	}
	if memberID <= 0 {
		return fmt.Errorf("%w: member_id must be positive", ErrInvalidInput)
	}
	return nil
}

package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	classRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/class"
	sessionRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ClubBookingService/pkg/keylock"
)

const (
	opBookClass     = "book_class_session"
	opCancelClass   = "cancel_class_session"
	opCompleteClass = "complete_class_session"
)

// BookClassSession создает групповое занятие
// Доступность тренера для групповых занятий не проверяется, только занятость тренера и зала
func (c *Coordinator) BookClassSession(ctx context.Context, req *ClassSessionRequest) (result *domain.ClassSession, err error) {
	defer func() { c.finish(opBookClass, err) }()

	if err := validateClassRequest(req); err != nil {
		return nil, err
	}
	c.logger.Info("BookClassSession: class=%d, range=%s", req.ClassID, req.Range)

	capacity, err := c.resolveCapacity(ctx, req)
	if err != nil {
		return nil, err
	}

	res := resources{trainerID: req.TrainerID, roomID: req.RoomID}
	unlock, err := c.lock(ctx, opBookClass, res.lockKeys())
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := c.checkConflicts(res, req.Range); err != nil {
		return nil, err
	}

	session := &domain.ClassSession{
		ClassID:   req.ClassID,
		TrainerID: req.TrainerID,
		RoomID:    req.RoomID,
		Range:     req.Range,
		Capacity:  capacity,
		Status:    domain.StatusScheduled,
	}

	// Счётчик мест открывается до фиксации транзакции: строка становится видна
	// регистрации только вместе с записью в трекере
	committed, opened := false, false
	err = c.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := c.sessionRepo.CreateClass(txCtx, session)
		if err != nil {
			return fmt.Errorf("%w: failed to create class session: %w", ErrInternal, err)
		}
		if err := c.commit(res, created.Range, created.Ref()); err != nil {
			return err
		}
		committed = true
		result = created
		if err := c.tracker.Open(created.ID, created.Capacity); err != nil {
			return fmt.Errorf("%w: failed to open capacity for session id=%d: %v", ErrInvariantViolation, created.ID, err)
		}
		opened = true
		return nil
	})
	if err != nil {
		if opened {
			c.tracker.Close(result.ID)
		}
		if committed {
			c.release(opBookClass, res, result.Ref())
		}
		return nil, txError(err)
	}

	c.logger.Info("BookClassSession: created session id=%d, capacity=%d", result.ID, result.Capacity)
	return result, nil
}

// CancelClassSession отменяет групповое занятие, освобождает ресурсы и закрывает запись
func (c *Coordinator) CancelClassSession(ctx context.Context, sessionID int64) (result *domain.ClassSession, err error) {
	defer func() { c.finish(opCancelClass, err) }()

	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	current, unlock, err := c.lockClass(ctx, opCancelClass, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	switch current.Status {
	case domain.StatusCancelled:
		c.logger.Info("CancelClassSession: session id=%d already cancelled", sessionID)
		return current, nil
	case domain.StatusCompleted:
		return nil, fmt.Errorf("%w: session id=%d", ErrCannotCancel, sessionID)
	}

	err = c.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return c.sessionRepo.UpdateClassStatus(txCtx, sessionID, domain.StatusCancelled)
	})
	if err != nil {
		return nil, txError(err)
	}

	c.release(opCancelClass, classResources(current), current.Ref())
	c.tracker.Close(sessionID)
	return c.getClass(ctx, sessionID)
}

// CompleteClassSession отмечает групповое занятие проведённым и закрывает запись
func (c *Coordinator) CompleteClassSession(ctx context.Context, sessionID int64) (result *domain.ClassSession, err error) {
	defer func() { c.finish(opCompleteClass, err) }()

	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	current, unlock, err := c.lockClass(ctx, opCompleteClass, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	switch current.Status {
	case domain.StatusCompleted:
		return current, nil
	case domain.StatusCancelled:
		return nil, fmt.Errorf("%w: session id=%d is cancelled", ErrSessionNotScheduled, sessionID)
	}

	err = c.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return c.sessionRepo.UpdateClassStatus(txCtx, sessionID, domain.StatusCompleted)
	})
	if err != nil {
		return nil, txError(err)
	}

	c.tracker.Close(sessionID)
	return c.getClass(ctx, sessionID)
}

// resolveCapacity возвращает вместимость из запроса или из шаблона занятия
func (c *Coordinator) resolveCapacity(ctx context.Context, req *ClassSessionRequest) (int, error) {
	class, err := c.classRepo.GetByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, classRepo.ErrClassNotFound) {
			return 0, fmt.Errorf("%w: class id=%d", ErrClassNotFound, req.ClassID)
		}
		return 0, fmt.Errorf("%w: failed to get class: %v", ErrInternal, err)
	}

	if req.Capacity != nil {
		return *req.Capacity, nil
	}
	if err := validateCapacity(class.DefaultCapacity); err != nil {
		return 0, err
	}
	return class.DefaultCapacity, nil
}

// lockClass захватывает ресурсы и запись группового занятия и перечитывает его под блокировкой
func (c *Coordinator) lockClass(ctx context.Context, op string, sessionID int64) (*domain.ClassSession, func(), error) {
	session, err := c.getClass(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	keys := classResources(session).lockKeys(keylock.Key(domain.LockKindClassSession, sessionID))
	unlock, err := c.lock(ctx, op, keys)
	if err != nil {
		return nil, nil, err
	}

	session, err = c.getClass(ctx, sessionID)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return session, unlock, nil
}

func (c *Coordinator) getClass(ctx context.Context, sessionID int64) (*domain.ClassSession, error) {
	session, err := c.sessionRepo.GetClassByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: class session id=%d", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("%w: failed to get class session: %v", ErrInternal, err)
	}
	return session, nil
}

func classResources(s *domain.ClassSession) resources {
	return resources{trainerID: s.TrainerID, roomID: s.RoomID}
}

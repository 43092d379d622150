package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/session"
)

const (
	opBookPersonal       = "book_personal_session"
	opCancelPersonal     = "cancel_personal_session"
	opReschedulePersonal = "reschedule_personal_session"
	opCompletePersonal   = "complete_personal_session"
)

// BookPersonalSession бронирует персональное занятие
// Проверки выполняются в фиксированном порядке: интервал, доступность тренера,
// занятость тренера, занятость зала. Возвращается первая сработавшая ошибка
func (c *Coordinator) BookPersonalSession(ctx context.Context, req *PersonalSessionRequest) (result *domain.PersonalSession, err error) {
	defer func() { c.finish(opBookPersonal, err) }()

	if err := validatePersonalRequest(req); err != nil {
		return nil, err
	}
	c.logger.Info("BookPersonalSession: member=%d, trainer=%d, range=%s",
		req.MemberID, req.TrainerID, req.Range)

	res := resources{trainerID: &req.TrainerID, roomID: req.RoomID}
	unlock, err := c.lock(ctx, opBookPersonal, res.lockKeys())
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := c.checkPersonal(res, req.Range); err != nil {
		return nil, err
	}

	session := &domain.PersonalSession{
		MemberID:  req.MemberID,
		TrainerID: req.TrainerID,
		RoomID:    req.RoomID,
		Range:     req.Range,
		Status:    domain.StatusScheduled,
		Note:      req.Note,
	}

	committed := false
	err = c.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := c.sessionRepo.CreatePersonal(txCtx, session)
		if err != nil {
			return fmt.Errorf("%w: failed to create personal session: %w", ErrInternal, err)
		}
		if err := c.commit(res, created.Range, created.Ref()); err != nil {
			return err
		}
		committed = true
		result = created
		return nil
	})
	if err != nil {
		if committed {
			c.release(opBookPersonal, res, result.Ref())
		}
		return nil, txError(err)
	}

	c.logger.Info("BookPersonalSession: created session id=%d", result.ID)
	return result, nil
}

// CancelPersonalSession отменяет персональное занятие и освобождает тренера и зал
// Повторная отмена уже отменённого занятия не является ошибкой
func (c *Coordinator) CancelPersonalSession(ctx context.Context, sessionID int64) (result *domain.PersonalSession, err error) {
	defer func() { c.finish(opCancelPersonal, err) }()

	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	current, unlock, err := c.lockPersonal(ctx, opCancelPersonal, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	switch current.Status {
	case domain.StatusCancelled:
		c.logger.Info("CancelPersonalSession: session id=%d already cancelled", sessionID)
		return current, nil
	case domain.StatusCompleted:
		return nil, fmt.Errorf("%w: session id=%d", ErrCannotCancel, sessionID)
	}

	err = c.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return c.sessionRepo.UpdatePersonalStatus(txCtx, sessionID, domain.StatusCancelled)
	})
	if err != nil {
		return nil, txError(err)
	}

	c.release(opCancelPersonal, personalResources(current), current.Ref())
	return c.getPersonal(ctx, sessionID)
}

// ReschedulePersonalSession переносит персональное занятие на новый интервал
// Старая бронь отменяется и создаётся новая в одной транзакции; при отказе старая остаётся в силе
func (c *Coordinator) ReschedulePersonalSession(ctx context.Context, sessionID int64, newRange domain.Interval) (result *domain.PersonalSession, err error) {
	defer func() { c.finish(opReschedulePersonal, err) }()

	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	if err := validateRange(newRange); err != nil {
		return nil, err
	}

	current, unlock, err := c.lockPersonal(ctx, opReschedulePersonal, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !current.IsScheduled() {
		return nil, fmt.Errorf("%w: session id=%d has status %s", ErrSessionNotScheduled, sessionID, current.Status)
	}

	res := personalResources(current)
	oldRef := current.Ref()

	// Старая бронь не должна конфликтовать с новым интервалом того же занятия
	c.release(opReschedulePersonal, res, oldRef)
	restore := func() error {
		return c.commit(res, current.Range, oldRef)
	}

	if err := c.checkPersonal(res, newRange); err != nil {
		if restoreErr := restore(); restoreErr != nil {
			return nil, restoreErr
		}
		return nil, err
	}

	next := &domain.PersonalSession{
		MemberID:  current.MemberID,
		TrainerID: current.TrainerID,
		RoomID:    current.RoomID,
		Range:     newRange,
		Status:    domain.StatusScheduled,
		Note:      current.Note,
	}

	committed := false
	err = c.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := c.sessionRepo.UpdatePersonalStatus(txCtx, sessionID, domain.StatusCancelled); err != nil {
			return fmt.Errorf("%w: failed to cancel previous session: %w", ErrInternal, err)
		}
		created, err := c.sessionRepo.CreatePersonal(txCtx, next)
		if err != nil {
			return fmt.Errorf("%w: failed to create rescheduled session: %w", ErrInternal, err)
		}
		if err := c.commit(res, created.Range, created.Ref()); err != nil {
			return err
		}
		committed = true
		result = created
		return nil
	})
	if err != nil {
		if committed {
			c.release(opReschedulePersonal, res, result.Ref())
		}
		if restoreErr := restore(); restoreErr != nil {
			return nil, restoreErr
		}
		return nil, txError(err)
	}

	c.logger.Info("ReschedulePersonalSession: session id=%d moved to id=%d, range=%s", sessionID, result.ID, newRange)
	return result, nil
}

// CompletePersonalSession отмечает персональное занятие проведённым
// Завершённое занятие продолжает занимать интервал тренера и зала
func (c *Coordinator) CompletePersonalSession(ctx context.Context, sessionID int64) (result *domain.PersonalSession, err error) {
	defer func() { c.finish(opCompletePersonal, err) }()

	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	current, unlock, err := c.lockPersonal(ctx, opCompletePersonal, sessionID)
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
		return c.sessionRepo.UpdatePersonalStatus(txCtx, sessionID, domain.StatusCompleted)
	})
	if err != nil {
		return nil, txError(err)
	}
	return c.getPersonal(ctx, sessionID)
}

// checkPersonal проверяет доступность тренера и отсутствие пересечений
func (c *Coordinator) checkPersonal(res resources, interval domain.Interval) error {
	if !c.availability.IsAvailable(*res.trainerID, interval) {
		return fmt.Errorf("%w: trainer=%d, range=%s", ErrTrainerUnavailable, *res.trainerID, interval)
	}
	return c.checkConflicts(res, interval)
}

// lockPersonal захватывает ресурсы занятия и перечитывает его под блокировкой
func (c *Coordinator) lockPersonal(ctx context.Context, op string, sessionID int64) (*domain.PersonalSession, func(), error) {
	session, err := c.getPersonal(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	unlock, err := c.lock(ctx, op, personalResources(session).lockKeys())
	if err != nil {
		return nil, nil, err
	}

	// Статус мог измениться, пока ждали блокировку; тренер и зал у занятия не меняются
	session, err = c.getPersonal(ctx, sessionID)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return session, unlock, nil
}

func (c *Coordinator) getPersonal(ctx context.Context, sessionID int64) (*domain.PersonalSession, error) {
	session, err := c.sessionRepo.GetPersonalByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: personal session id=%d", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("%w: failed to get personal session: %v", ErrInternal, err)
	}
	return session, nil
}

func personalResources(s *domain.PersonalSession) resources {
	trainerID := s.TrainerID
	return resources{trainerID: &trainerID, roomID: s.RoomID}
}

// Package availability manages trainer availability windows and keeps the in-memory store in step with storage.
package availability

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	windowRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/availability/models"
	"github.com/m04kA/SMC-ClubBookingService/pkg/keylock"
)

// Service сервис управления окнами доступности тренеров
type Service struct {
	windowRepo WindowRepository
	store      WindowStore
	locker     Locker
	logger     Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	windowRepo WindowRepository,
	store WindowStore,
	locker Locker,
	logger Logger,
) *Service {
	return &Service{
		windowRepo: windowRepo,
		store:      store,
		locker:     locker,
		logger:     logger,
	}
}

// AddWindow добавляет окно доступности тренера
// Окно становится видно бронированию только после записи в БД
func (s *Service) AddWindow(ctx context.Context, req *models.AddWindowRequest) (*models.WindowResponse, error) {
	if err := validateAddRequest(req); err != nil {
		s.logger.Warn("AddWindow: validation failed: %v", err)
		return nil, err
	}
	s.logger.Info("AddWindow: trainer=%d, range=%s - %s",
		req.TrainerID, req.Start.Format(domain.TimeFormat), req.End.Format(domain.TimeFormat))

	unlock, err := s.lockTrainer(ctx, "AddWindow", req.TrainerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	created, err := s.windowRepo.Create(ctx, req.ToDomainWindow())
	if err != nil {
		s.logger.Error("AddWindow: repository error: %v", err)
		return nil, fmt.Errorf("%w: AddWindow - repository error: %v", ErrInternal, err)
	}
	s.store.Put(*created)

	s.logger.Info("AddWindow: successfully created window id=%d", created.ID)
	return models.FromDomainWindow(created), nil
}

// DeleteWindow удаляет окно доступности
// Уже забронированные занятия не отменяются, окно влияет только на новые брони
func (s *Service) DeleteWindow(ctx context.Context, windowID int64) error {
	if windowID <= 0 {
		return fmt.Errorf("%w: window id must be positive", ErrInvalidInput)
	}
	s.logger.Info("DeleteWindow: window id=%d", windowID)

	window, err := s.windowRepo.GetByID(ctx, windowID)
	if err != nil {
		return s.repoError("DeleteWindow", windowID, err)
	}

	unlock, err := s.lockTrainer(ctx, "DeleteWindow", window.TrainerID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.windowRepo.Delete(ctx, windowID); err != nil {
		return s.repoError("DeleteWindow", windowID, err)
	}
	if !s.store.Remove(windowID) {
		s.logger.Warn("DeleteWindow: window id=%d was missing in store", windowID)
	}

	s.logger.Info("DeleteWindow: successfully deleted window id=%d", windowID)
	return nil
}

// ListWindows возвращает окна доступности тренера
func (s *Service) ListWindows(ctx context.Context, trainerID int64) (*models.WindowListResponse, error) {
	if trainerID <= 0 {
		return nil, fmt.Errorf("%w: trainer id must be positive", ErrInvalidInput)
	}
	s.logger.Info("ListWindows: trainer=%d", trainerID)

	windows, err := s.windowRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		s.logger.Error("ListWindows: repository error for trainer=%d: %v", trainerID, err)
		return nil, fmt.Errorf("%w: ListWindows - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainWindowList(windows), nil
}

func (s *Service) lockTrainer(ctx context.Context, op string, trainerID int64) (func(), error) {
	unlock, err := s.locker.Lock(ctx, keylock.Key(domain.LockKindTrainer, trainerID))
	if err != nil {
		if errors.Is(err, keylock.ErrTimeout) {
			s.logger.Warn("%s: lock timeout for trainer=%d", op, trainerID)
			return nil, fmt.Errorf("%w: %v", ErrBusy, err)
		}
		return nil, fmt.Errorf("%w: lock aborted: %v", ErrInternal, err)
	}
	return unlock, nil
}

func (s *Service) repoError(op string, windowID int64, err error) error {
	if errors.Is(err, windowRepo.ErrWindowNotFound) {
		s.logger.Warn("%s: window id=%d not found", op, windowID)
		return ErrWindowNotFound
	}
	s.logger.Error("%s: repository error for window id=%d: %v", op, windowID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func validateAddRequest(req *models.AddWindowRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.TrainerID <= 0 {
		return fmt.Errorf("%w: trainer id must be positive", ErrInvalidInput)
	}
	if req.Note != nil && utf8.RuneCountInString(*req.Note) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note is longer than %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}
	if err := (domain.Interval{Start: req.Start, End: req.End}).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return nil
}

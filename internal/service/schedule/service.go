package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/schedule/models"
)

// Service сервис чтения расписания
type Service struct {
	sessionRepo      SessionRepository
	registrationRepo RegistrationRepository
	counter          CapacityCounter
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	sessionRepo SessionRepository,
	registrationRepo RegistrationRepository,
	counter CapacityCounter,
	logger Logger,
) *Service {
	return &Service{
		sessionRepo:      sessionRepo,
		registrationRepo: registrationRepo,
		counter:          counter,
		logger:           logger,
	}
}

// GetPersonalSession получает персональное занятие по ID
func (s *Service) GetPersonalSession(ctx context.Context, id int64) (*models.PersonalSessionResponse, error) {
	s.logger.Info("GetPersonalSession: fetching session id=%d", id)

	session, err := s.sessionRepo.GetPersonalByID(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.logger.Warn("GetPersonalSession: session id=%d not found", id)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("GetPersonalSession: repository error for session id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetPersonalSession - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPersonalSession(session), nil
}

// GetClassSession получает групповое занятие по ID вместе с числом записанных
func (s *Service) GetClassSession(ctx context.Context, id int64) (*models.ClassSessionResponse, error) {
	s.logger.Info("GetClassSession: fetching session id=%d", id)

	session, err := s.getClass(ctx, "GetClassSession", id)
	if err != nil {
		return nil, err
	}

	registered, err := s.registeredCount(ctx, session)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomainClassSession(session)
	resp.Registered = &registered
	return resp, nil
}

// TrainerSchedule возвращает занятия тренера за период
func (s *Service) TrainerSchedule(ctx context.Context, req *models.ScheduleRequest) (*models.ScheduleResponse, error) {
	return s.resourceSchedule(ctx, domain.ResourceTrainer, req)
}

// RoomSchedule возвращает занятия зала за период
func (s *Service) RoomSchedule(ctx context.Context, req *models.ScheduleRequest) (*models.ScheduleResponse, error) {
	return s.resourceSchedule(ctx, domain.ResourceRoom, req)
}

// ClassRoster возвращает список участников группового занятия
func (s *Service) ClassRoster(ctx context.Context, sessionID int64) (*models.RosterResponse, error) {
	s.logger.Info("ClassRoster: fetching roster for session id=%d", sessionID)

	session, err := s.getClass(ctx, "ClassRoster", sessionID)
	if err != nil {
		return nil, err
	}

	regs, err := s.registrationRepo.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("ClassRoster: repository error for session id=%d: %v", sessionID, err)
		return nil, fmt.Errorf("%w: ClassRoster - repository error: %v", ErrInternal, err)
	}

	resp := &models.RosterResponse{
		ClassSessionID: session.ID,
		Capacity:       session.Capacity,
		Registered:     len(regs),
		Members:        make([]models.RegistrationResponse, 0, len(regs)),
	}
	for _, r := range regs {
		resp.Members = append(resp.Members, *models.FromDomainRegistration(r))
	}
	return resp, nil
}

func (s *Service) resourceSchedule(ctx context.Context, kind domain.ResourceKind, req *models.ScheduleRequest) (*models.ScheduleResponse, error) {
	if req == nil || req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resource id must be positive", ErrInvalidInput)
	}
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidRange)
	}

	logMsg := fmt.Sprintf("Schedule: fetching %s=%d", kind, req.ResourceID)
	if req.From != nil {
		logMsg += fmt.Sprintf(", from=%s", req.From.Format(domain.TimeFormat))
	}
	if req.To != nil {
		logMsg += fmt.Sprintf(", to=%s", req.To.Format(domain.TimeFormat))
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info("%s", logMsg)

	filter := domain.ScheduleFilter{
		From:            req.From,
		To:              req.To,
		IncludeInactive: req.IncludeInactive,
	}
	resourceID := req.ResourceID
	switch kind {
	case domain.ResourceTrainer:
		filter.TrainerID = &resourceID
	case domain.ResourceRoom:
		filter.RoomID = &resourceID
	}

	personal, err := s.sessionRepo.ListPersonal(ctx, filter)
	if err != nil {
		s.logger.Error("Schedule: failed to list personal sessions for %s=%d: %v", kind, resourceID, err)
		return nil, fmt.Errorf("%w: Schedule - repository error: %v", ErrInternal, err)
	}
	classes, err := s.sessionRepo.ListClass(ctx, filter)
	if err != nil {
		s.logger.Error("Schedule: failed to list class sessions for %s=%d: %v", kind, resourceID, err)
		return nil, fmt.Errorf("%w: Schedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Schedule: fetched %d personal and %d class sessions for %s=%d",
		len(personal), len(classes), kind, resourceID)
	return models.NewScheduleResponse(kind, resourceID, personal, classes), nil
}

func (s *Service) getClass(ctx context.Context, op string, id int64) (*domain.ClassSession, error) {
	session, err := s.sessionRepo.GetClassByID(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.logger.Warn("%s: class session id=%d not found", op, id)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("%s: repository error for class session id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return session, nil
}

// registeredCount берёт счётчик из трекера, а для закрытых занятий считает записи в БД
func (s *Service) registeredCount(ctx context.Context, session *domain.ClassSession) (int, error) {
	if registered, _, ok := s.counter.Count(session.ID); ok {
		return registered, nil
	}
	regs, err := s.registrationRepo.ListBySession(ctx, session.ID)
	if err != nil {
		s.logger.Error("GetClassSession: failed to list registrations for session id=%d: %v", session.ID, err)
		return 0, fmt.Errorf("%w: GetClassSession - repository error: %v", ErrInternal, err)
	}
	return len(regs), nil
}

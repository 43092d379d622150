package schedule

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// SessionRepository интерфейс чтения занятий
type SessionRepository interface {
	GetPersonalByID(ctx context.Context, id int64) (*domain.PersonalSession, error)
	ListPersonal(ctx context.Context, filter domain.ScheduleFilter) ([]*domain.PersonalSession, error)
	GetClassByID(ctx context.Context, id int64) (*domain.ClassSession, error)
	ListClass(ctx context.Context, filter domain.ScheduleFilter) ([]*domain.ClassSession, error)
}

// RegistrationRepository интерфейс чтения записей на занятия
type RegistrationRepository interface {
	ListBySession(ctx context.Context, sessionID int64) ([]*domain.ClassRegistration, error)
}

// CapacityCounter интерфейс чтения счётчика мест
type CapacityCounter interface {
	Count(sessionID int64) (registered int, capacity int, ok bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

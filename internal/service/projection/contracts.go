package projection

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// SessionRepository интерфейс чтения занятий
type SessionRepository interface {
	ListPersonal(ctx context.Context, filter domain.ScheduleFilter) ([]*domain.PersonalSession, error)
	ListClass(ctx context.Context, filter domain.ScheduleFilter) ([]*domain.ClassSession, error)
}

// WindowRepository интерфейс чтения окон доступности
type WindowRepository interface {
	ListAll(ctx context.Context) ([]*domain.AvailabilityWindow, error)
}

// RegistrationRepository интерфейс чтения записей на занятия
type RegistrationRepository interface {
	ListForScheduledSessions(ctx context.Context) ([]*domain.ClassRegistration, error)
}

// Calendar интерфейс календаря ресурсов
type Calendar interface {
	Kind() domain.ResourceKind
	Commit(resourceID int64, interval domain.Interval, ref domain.BookingRef) error
	Reset()
	CheckAll() error
}

// WindowStore интерфейс хранилища окон доступности
type WindowStore interface {
	Load(windows []*domain.AvailabilityWindow)
}

// CapacityTracker интерфейс трекера мест
type CapacityTracker interface {
	Open(sessionID int64, capacity int, members ...int64) error
	Reset()
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package booking

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// SessionRepository интерфейс репозитория занятий
type SessionRepository interface {
	CreatePersonal(ctx context.Context, s *domain.PersonalSession) (*domain.PersonalSession, error)
	GetPersonalByID(ctx context.Context, id int64) (*domain.PersonalSession, error)
	UpdatePersonalStatus(ctx context.Context, id int64, status domain.SessionStatus) error

	CreateClass(ctx context.Context, s *domain.ClassSession) (*domain.ClassSession, error)
	GetClassByID(ctx context.Context, id int64) (*domain.ClassSession, error)
	UpdateClassStatus(ctx context.Context, id int64, status domain.SessionStatus) error
}

// ClassRepository интерфейс каталога групповых занятий
type ClassRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Class, error)
}

// Calendar интерфейс календаря ресурсов одного вида
type Calendar interface {
	Kind() domain.ResourceKind
	QueryOverlap(resourceID int64, candidate domain.Interval) bool
	Commit(resourceID int64, interval domain.Interval, ref domain.BookingRef) error
	Release(resourceID int64, ref domain.BookingRef) bool
}

// AvailabilityStore интерфейс хранилища окон доступности тренеров
type AvailabilityStore interface {
	IsAvailable(trainerID int64, candidate domain.Interval) bool
}

// CapacityTracker интерфейс трекера мест групповых занятий
type CapacityTracker interface {
	Open(sessionID int64, capacity int, members ...int64) error
	Close(sessionID int64)
}

// Locker интерфейс блокировок по ресурсам
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder интерфейс учёта решений движка
type MetricsRecorder interface {
	RecordDecision(operation, outcome string)
	RecordLockTimeout(operation string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

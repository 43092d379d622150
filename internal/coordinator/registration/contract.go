package registration

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// SessionRepository интерфейс чтения групповых занятий
type SessionRepository interface {
	GetClassByID(ctx context.Context, id int64) (*domain.ClassSession, error)
}

// RegistrationRepository интерфейс репозитория записей на занятия
type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.ClassRegistration) (*domain.ClassRegistration, error)
	Delete(ctx context.Context, sessionID, memberID int64) error
}

// CapacityTracker интерфейс трекера мест
type CapacityTracker interface {
	TryRegister(sessionID, memberID int64) error
	Release(sessionID, memberID int64) error
	IsRegistered(sessionID, memberID int64) bool
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

package availability

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// WindowRepository интерфейс репозитория окон доступности
type WindowRepository interface {
	Create(ctx context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityWindow, error)
	ListByTrainer(ctx context.Context, trainerID int64) ([]*domain.AvailabilityWindow, error)
	Delete(ctx context.Context, id int64) error
}

// WindowStore интерфейс проекции окон доступности
type WindowStore interface {
	Put(window domain.AvailabilityWindow)
	Remove(windowID int64) bool
}

// Locker интерфейс блокировок по ресурсам
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

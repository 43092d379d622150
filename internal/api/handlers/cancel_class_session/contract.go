package cancel_class_session

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

type BookingCoordinator interface {
	CancelClassSession(ctx context.Context, sessionID int64) (*domain.ClassSession, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package complete_session

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

type BookingCoordinator interface {
	CompletePersonalSession(ctx context.Context, sessionID int64) (*domain.PersonalSession, error)
	CompleteClassSession(ctx context.Context, sessionID int64) (*domain.ClassSession, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

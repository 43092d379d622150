package reschedule_personal_session

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

type BookingCoordinator interface {
	ReschedulePersonalSession(ctx context.Context, sessionID int64, newRange domain.Interval) (*domain.PersonalSession, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

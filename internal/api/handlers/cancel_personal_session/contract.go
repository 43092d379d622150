package cancel_personal_session

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

type BookingCoordinator interface {
	CancelPersonalSession(ctx context.Context, sessionID int64) (*domain.PersonalSession, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

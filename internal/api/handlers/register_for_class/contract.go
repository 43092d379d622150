package register_for_class

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

type RegistrationCoordinator interface {
	Register(ctx context.Context, sessionID, memberID int64) (*domain.ClassRegistration, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

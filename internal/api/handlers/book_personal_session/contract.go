package book_personal_session

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/coordinator/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

type BookingCoordinator interface {
	BookPersonalSession(ctx context.Context, req *booking.PersonalSessionRequest) (*domain.PersonalSession, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

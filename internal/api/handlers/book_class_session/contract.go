package book_class_session

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/coordinator/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

type BookingCoordinator interface {
	BookClassSession(ctx context.Context, req *booking.ClassSessionRequest) (*domain.ClassSession, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

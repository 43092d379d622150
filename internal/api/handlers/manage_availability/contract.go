package manage_availability

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/service/availability/models"
)

type AvailabilityService interface {
	AddWindow(ctx context.Context, req *models.AddWindowRequest) (*models.WindowResponse, error)
	DeleteWindow(ctx context.Context, windowID int64) error
	ListWindows(ctx context.Context, trainerID int64) (*models.WindowListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

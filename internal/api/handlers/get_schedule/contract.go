package get_schedule

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	TrainerSchedule(ctx context.Context, req *models.ScheduleRequest) (*models.ScheduleResponse, error)
	RoomSchedule(ctx context.Context, req *models.ScheduleRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

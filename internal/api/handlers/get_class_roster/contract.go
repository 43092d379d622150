package get_class_roster

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	ClassRoster(ctx context.Context, sessionID int64) (*models.RosterResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

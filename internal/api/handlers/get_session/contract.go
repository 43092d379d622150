package get_session

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetPersonalSession(ctx context.Context, id int64) (*models.PersonalSessionResponse, error)
	GetClassSession(ctx context.Context, id int64) (*models.ClassSessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

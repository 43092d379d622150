package reschedule_personal_session

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Start time.Time `json:"start"` // RFC 3339
	End   time.Time `json:"end"`   // RFC 3339
}

// ToInterval конвертирует запрос в интервал
func (r *RescheduleRequest) ToInterval() domain.Interval {
	return domain.Interval{Start: r.Start, End: r.End}
}

package book_class_session

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/coordinator/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// BookClassSessionRequest HTTP request model
type BookClassSessionRequest struct {
	ClassID   int64     `json:"classId"`
	TrainerID *int64    `json:"trainerId,omitempty"`
	RoomID    *int64    `json:"roomId,omitempty"`
	Start     time.Time `json:"start"`              // RFC 3339
	End       time.Time `json:"end"`                // RFC 3339
	Capacity  *int      `json:"capacity,omitempty"` // По умолчанию берётся из шаблона занятия
}

// ToCoordinatorRequest конвертирует HTTP запрос в модель координатора
func (r *BookClassSessionRequest) ToCoordinatorRequest() *booking.ClassSessionRequest {
	return &booking.ClassSessionRequest{
		ClassID:   r.ClassID,
		TrainerID: r.TrainerID,
		RoomID:    r.RoomID,
		Range:     domain.Interval{Start: r.Start, End: r.End},
		Capacity:  r.Capacity,
	}
}

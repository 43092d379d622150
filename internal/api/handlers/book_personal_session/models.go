package book_personal_session

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/coordinator/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// BookPersonalSessionRequest HTTP request model
type BookPersonalSessionRequest struct {
	MemberID  int64     `json:"memberId"`
	TrainerID int64     `json:"trainerId"`
	RoomID    *int64    `json:"roomId,omitempty"`
	Start     time.Time `json:"start"` // RFC 3339
	End       time.Time `json:"end"`   // RFC 3339
	Note      *string   `json:"note,omitempty"`
}

// ToCoordinatorRequest конвертирует HTTP запрос в модель координатора
func (r *BookPersonalSessionRequest) ToCoordinatorRequest() *booking.PersonalSessionRequest {
	return &booking.PersonalSessionRequest{
		MemberID:  r.MemberID,
		TrainerID: r.TrainerID,
		RoomID:    r.RoomID,
		Range:     domain.Interval{Start: r.Start, End: r.End},
		Note:      r.Note,
	}
}

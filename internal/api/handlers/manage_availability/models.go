package manage_availability

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/service/availability/models"
)

// AddWindowRequest HTTP request model
type AddWindowRequest struct {
	Start time.Time `json:"start"` // RFC 3339
	End   time.Time `json:"end"`   // RFC 3339
	Note  *string   `json:"note,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AddWindowRequest) ToServiceRequest(trainerID int64) *models.AddWindowRequest {
	return &models.AddWindowRequest{
		TrainerID: trainerID,
		Start:     r.Start,
		End:       r.End,
		Note:      r.Note,
	}
}

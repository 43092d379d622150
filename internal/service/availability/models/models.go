package models

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// Request модели

// AddWindowRequest запрос на добавление окна доступности
type AddWindowRequest struct {
	TrainerID int64     `json:"trainerId"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Note      *string   `json:"note,omitempty"`
}

// ToDomainWindow конвертирует request в domain модель
func (r *AddWindowRequest) ToDomainWindow() *domain.AvailabilityWindow {
	return &domain.AvailabilityWindow{
		TrainerID: r.TrainerID,
		Range:     domain.Interval{Start: r.Start, End: r.End},
		Note:      r.Note,
	}
}

// Response модели

// WindowResponse ответ с окном доступности тренера
type WindowResponse struct {
	ID        int64     `json:"id"`
	TrainerID int64     `json:"trainerId"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// WindowListResponse ответ со списком окон доступности
type WindowListResponse struct {
	Windows []WindowResponse `json:"windows"`
}

// FromDomainWindow конвертирует domain модель в DTO
func FromDomainWindow(w *domain.AvailabilityWindow) *WindowResponse {
	if w == nil {
		return nil
	}
	return &WindowResponse{
		ID:        w.ID,
		TrainerID: w.TrainerID,
		Start:     w.Range.Start,
		End:       w.Range.End,
		Note:      w.Note,
		CreatedAt: w.CreatedAt,
	}
}

// FromDomainWindowList конвертирует список окон в DTO
func FromDomainWindowList(windows []*domain.AvailabilityWindow) *WindowListResponse {
	resp := &WindowListResponse{
		Windows: make([]WindowResponse, 0, len(windows)),
	}
	for _, w := range windows {
		resp.Windows = append(resp.Windows, *FromDomainWindow(w))
	}
	return resp
}

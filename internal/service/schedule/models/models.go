package models

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// Request модели

// ScheduleRequest запрос расписания тренера или зала
type ScheduleRequest struct {
	ResourceID      int64      `json:"resourceId"`
	From            *time.Time `json:"from,omitempty"`            // Начало периода (опционально)
	To              *time.Time `json:"to,omitempty"`              // Конец периода (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые занятия
}

// Response модели

// PersonalSessionResponse ответ с данными персонального занятия
type PersonalSessionResponse struct {
	ID          int64      `json:"id"`
	MemberID    int64      `json:"memberId"`
	TrainerID   int64      `json:"trainerId"`
	RoomID      *int64     `json:"roomId,omitempty"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Status      string     `json:"status"`
	Note        *string    `json:"note,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ClassSessionResponse ответ с данными группового занятия
type ClassSessionResponse struct {
	ID          int64      `json:"id"`
	ClassID     int64      `json:"classId"`
	TrainerID   *int64     `json:"trainerId,omitempty"`
	RoomID      *int64     `json:"roomId,omitempty"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Capacity    int        `json:"capacity"`
	Registered  *int       `json:"registered,omitempty"` // Заполняется, если известно
	Status      string     `json:"status"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ScheduleResponse ответ с расписанием ресурса
type ScheduleResponse struct {
	ResourceKind     string                    `json:"resourceKind"`
	ResourceID       int64                     `json:"resourceId"`
	PersonalSessions []PersonalSessionResponse `json:"personalSessions"`
	ClassSessions    []ClassSessionResponse    `json:"classSessions"`
}

// RegistrationResponse ответ с данными записи на занятие
type RegistrationResponse struct {
	ClassSessionID int64     `json:"classSessionId"`
	MemberID       int64     `json:"memberId"`
	RegisteredAt   time.Time `json:"registeredAt"`
}

// RosterResponse список участников группового занятия
type RosterResponse struct {
	ClassSessionID int64                  `json:"classSessionId"`
	Capacity       int                    `json:"capacity"`
	Registered     int                    `json:"registered"`
	Members        []RegistrationResponse `json:"members"`
}

// Методы конвертации

// FromDomainPersonalSession конвертирует domain модель в DTO
func FromDomainPersonalSession(s *domain.PersonalSession) *PersonalSessionResponse {
	if s == nil {
		return nil
	}
	return &PersonalSessionResponse{
		ID:          s.ID,
		MemberID:    s.MemberID,
		TrainerID:   s.TrainerID,
		RoomID:      s.RoomID,
		Start:       s.Range.Start,
		End:         s.Range.End,
		Status:      string(s.Status),
		Note:        s.Note,
		CancelledAt: s.CancelledAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromDomainClassSession конвертирует domain модель в DTO
func FromDomainClassSession(s *domain.ClassSession) *ClassSessionResponse {
	if s == nil {
		return nil
	}
	return &ClassSessionResponse{
		ID:          s.ID,
		ClassID:     s.ClassID,
		TrainerID:   s.TrainerID,
		RoomID:      s.RoomID,
		Start:       s.Range.Start,
		End:         s.Range.End,
		Capacity:    s.Capacity,
		Status:      string(s.Status),
		CancelledAt: s.CancelledAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromDomainRegistration конвертирует domain модель в DTO
func FromDomainRegistration(r *domain.ClassRegistration) *RegistrationResponse {
	if r == nil {
		return nil
	}
	return &RegistrationResponse{
		ClassSessionID: r.ClassSessionID,
		MemberID:       r.MemberID,
		RegisteredAt:   r.RegisteredAt,
	}
}

// NewScheduleResponse собирает расписание ресурса
func NewScheduleResponse(kind domain.ResourceKind, resourceID int64, personal []*domain.PersonalSession, classes []*domain.ClassSession) *ScheduleResponse {
	resp := &ScheduleResponse{
		ResourceKind:     string(kind),
		ResourceID:       resourceID,
		PersonalSessions: make([]PersonalSessionResponse, 0, len(personal)),
		ClassSessions:    make([]ClassSessionResponse, 0, len(classes)),
	}
	for _, s := range personal {
		resp.PersonalSessions = append(resp.PersonalSessions, *FromDomainPersonalSession(s))
	}
	for _, s := range classes {
		resp.ClassSessions = append(resp.ClassSessions, *FromDomainClassSession(s))
	}
	return resp
}

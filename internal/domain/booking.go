package domain

import "time"

// SessionStatus represents the status of a personal or class session
type SessionStatus string

const (
	StatusScheduled SessionStatus = "scheduled"
	StatusCancelled SessionStatus = "cancelled"
	StatusCompleted SessionStatus = "completed"
)

// IsValid reports whether the status is one of the known values
func (s SessionStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// PersonalSession is a one-to-one training booking between a member and a trainer
type PersonalSession struct {
	ID        int64
	MemberID  int64
	TrainerID int64
	RoomID    *int64
	Range     Interval
	Status    SessionStatus
	Note      *string

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsScheduled returns true if the session has not been cancelled or completed yet
func (s *PersonalSession) IsScheduled() bool {
	return s.Status == StatusScheduled
}

// IsCancelled returns true if the session has been cancelled
func (s *PersonalSession) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// Ref returns the calendar reference of the session
func (s *PersonalSession) Ref() BookingRef {
	return BookingRef{Kind: KindPersonal, ID: s.ID}
}

// ClassSession is a scheduled occurrence of a group class
type ClassSession struct {
	ID        int64
	ClassID   int64
	TrainerID *int64
	RoomID    *int64
	Range     Interval
	Capacity  int
	Status    SessionStatus

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsScheduled returns true if registrations are still accepted
func (s *ClassSession) IsScheduled() bool {
	return s.Status == StatusScheduled
}

// IsCancelled returns true if the session has been cancelled
func (s *ClassSession) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// Ref returns the calendar reference of the session
func (s *ClassSession) Ref() BookingRef {
	return BookingRef{Kind: KindClass, ID: s.ID}
}

// ClassRegistration is a member's seat in a class session. Unique per (session, member)
type ClassRegistration struct {
	ClassSessionID int64
	MemberID       int64
	RegisteredAt   time.Time
}

// Class is a catalog template for class sessions
type Class struct {
	ID              int64
	Name            string
	DefaultCapacity int
}

// AvailabilityWindow is a range during which a trainer may be booked for personal sessions
type AvailabilityWindow struct {
	ID        int64
	TrainerID int64
	Range     Interval
	Note      *string
	CreatedAt time.Time
}

// ScheduleFilter selects sessions of one resource within an optional period
type ScheduleFilter struct {
	TrainerID       *int64
	RoomID          *int64
	From            *time.Time // sessions ending after From
	To              *time.Time // sessions starting before To
	IncludeInactive bool       // include cancelled sessions
}

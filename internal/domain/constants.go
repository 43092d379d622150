package domain

import "fmt"

// BookingKind distinguishes the two booking record types sharing the resource calendars
type BookingKind string

const (
	KindPersonal BookingKind = "personal"
	KindClass    BookingKind = "class"
)

// BookingRef identifies a booking record inside a resource calendar
type BookingRef struct {
	Kind BookingKind
	ID   int64
}

func (r BookingRef) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}

// ResourceKind is the kind of a non-sharable resource
type ResourceKind string

const (
	ResourceTrainer ResourceKind = "trainer"
	ResourceRoom    ResourceKind = "room"
)

// Lock key prefixes used to serialize validate-then-commit per resource
const (
	LockKindTrainer      = "trainer"
	LockKindRoom         = "room"
	LockKindClassSession = "class_session"
)

// Business validation constants
const (
	MinCapacity   = 1
	MaxCapacity   = 500
	MaxNoteLength = 500
)

// TimeFormat is the wire format of timestamps
const TimeFormat = "2006-01-02T15:04:05Z07:00"

// InactiveStatuses statuses that no longer occupy a resource
var InactiveStatuses = []SessionStatus{
	StatusCancelled,
}

// ActiveStatuses statuses that occupy a resource calendar
var ActiveStatuses = []SessionStatus{
	StatusScheduled,
	StatusCompleted,
}

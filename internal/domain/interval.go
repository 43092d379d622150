package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when an interval does not satisfy Start < End
var ErrInvalidRange = errors.New("domain: invalid time range")

// Interval is a half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds and validates an interval
func NewInterval(start, end time.Time) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Validate checks Start < End. Zero timestamps are rejected as well
func (iv Interval) Validate() error {
	if iv.Start.IsZero() || iv.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidRange)
	}
	if !iv.Start.Before(iv.End) {
		return fmt.Errorf("%w: start %s must be before end %s",
			ErrInvalidRange, iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
	}
	return nil
}

// Overlaps reports whether the two intervals share at least one instant.
// Touching intervals (a.End == b.Start) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether inner lies entirely within iv
func (iv Interval) Contains(inner Interval) bool {
	return !inner.Start.Before(iv.Start) && !iv.End.Before(inner.End)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}

// Overlaps is the free-function form of Interval.Overlaps
func Overlaps(a, b Interval) bool {
	return a.Overlaps(b)
}

// Contains is the free-function form of Interval.Contains
func Contains(outer, inner Interval) bool {
	return outer.Contains(inner)
}

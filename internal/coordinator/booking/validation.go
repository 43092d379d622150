package booking

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// validatePersonalRequest валидирует запрос на персональное занятие
// Интервал проверяется первым
func validatePersonalRequest(req *PersonalSessionRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if err := validateRange(req.Range); err != nil {
		return err
	}
	if req.MemberID <= 0 {
		return fmt.Errorf("%w: member_id must be positive", ErrInvalidInput)
	}
	if req.TrainerID <= 0 {
		return fmt.Errorf("%w: trainer_id must be positive", ErrInvalidInput)
	}
	if err := validateOptionalID("room_id", req.RoomID); err != nil {
		return err
	}
	if req.Note != nil && utf8.RuneCountInString(*req.Note) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note is longer than %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}
	return nil
}

// validateClassRequest валидирует запрос на групповое занятие
func validateClassRequest(req *ClassSessionRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if err := validateRange(req.Range); err != nil {
		return err
	}
	if req.ClassID <= 0 {
		return fmt.Errorf("%w: class_id must be positive", ErrInvalidInput)
	}
	if err := validateOptionalID("trainer_id", req.TrainerID); err != nil {
		return err
	}
	if err := validateOptionalID("room_id", req.RoomID); err != nil {
		return err
	}
	if req.Capacity != nil {
		if err := validateCapacity(*req.Capacity); err != nil {
			return err
		}
	}
	return nil
}

func validateRange(interval domain.Interval) error {
	if err := interval.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return nil
}

func validateCapacity(capacity int) error {
	if capacity < domain.MinCapacity || capacity > domain.MaxCapacity {
		return fmt.Errorf("%w: must be between %d and %d, got %d",
			ErrInvalidCapacity, domain.MinCapacity, domain.MaxCapacity, capacity)
	}
	return nil
}

func validateOptionalID(field string, id *int64) error {
	if id != nil && *id <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, field)
	}
	return nil
}

func validateSessionID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: session_id must be positive", ErrInvalidInput)
	}
	return nil
}

package capacity

import "errors"

var (
	// ErrCapacityExceeded возвращается, когда все места занятия заняты
	ErrCapacityExceeded = errors.New("capacity: class session is full")

	// ErrAlreadyRegistered возвращается при повторной записи участника
	ErrAlreadyRegistered = errors.New("capacity: member already registered")

	// ErrNotRegistered возвращается, когда участник не записан на занятие
	ErrNotRegistered = errors.New("capacity: member not registered")

	// ErrUnknownSession возвращается, когда занятие не открыто в трекере
	ErrUnknownSession = errors.New("capacity: class session is not tracked")

	// ErrInvalidCapacity возвращается при неположительной вместимости
	ErrInvalidCapacity = errors.New("capacity: capacity must be positive")
)

package registration

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("registration: invalid input data")

	// ErrSessionNotFound возвращается, когда групповое занятие не найдено
	ErrSessionNotFound = errors.New("registration: session not found")

	// ErrSessionNotScheduled возвращается, когда занятие отменено или уже проведено
	ErrSessionNotScheduled = errors.New("registration: session is not scheduled")

	// ErrCapacityExceeded возвращается, когда все места на занятие заняты
	ErrCapacityExceeded = errors.New("registration: capacity exceeded")

	// ErrAlreadyRegistered возвращается при повторной записи участника
	ErrAlreadyRegistered = errors.New("registration: member is already registered")

	// ErrNotRegistered возвращается, когда участник не записан на занятие
	ErrNotRegistered = errors.New("registration: member is not registered")

	// ErrBusy возвращается, когда занятие занято другим запросом дольше таймаута
	ErrBusy = errors.New("registration: session is busy, retry later")

	// ErrInvariantViolation возвращается, когда проекция мест разошлась с хранилищем
	ErrInvariantViolation = errors.New("registration: internal invariant violated")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("registration: internal error")
)

// IsRetryable сообщает, имеет ли смысл повторить тот же запрос
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBusy)
}

// IsRejection сообщает, является ли ошибка штатным бизнес-отказом
func IsRejection(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSessionNotScheduled),
		errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrAlreadyRegistered),
		errors.Is(err, ErrNotRegistered):
		return true
	}
	return false
}

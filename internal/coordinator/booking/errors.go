package booking

import "errors"

var (
	// ErrInvalidRange возвращается при некорректном интервале (start >= end)
	ErrInvalidRange = errors.New("booking: invalid range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("booking: invalid input data")

	// ErrInvalidCapacity возвращается при недопустимой вместимости занятия
	ErrInvalidCapacity = errors.New("booking: invalid capacity")

	// ErrTrainerUnavailable возвращается, когда интервал не попадает целиком в окно доступности тренера
	ErrTrainerUnavailable = errors.New("booking: trainer is not available in this range")

	// ErrTrainerDoubleBooked возвращается, когда тренер уже занят в пересекающемся интервале
	ErrTrainerDoubleBooked = errors.New("booking: trainer is already booked in this range")

	// ErrRoomDoubleBooked возвращается, когда зал уже занят в пересекающемся интервале
	ErrRoomDoubleBooked = errors.New("booking: room is already booked in this range")

	// ErrSessionNotFound возвращается, когда занятие не найдено
	ErrSessionNotFound = errors.New("booking: session not found")

	// ErrClassNotFound возвращается, когда шаблон группового занятия не найден
	ErrClassNotFound = errors.New("booking: class not found")

	// ErrSessionNotScheduled возвращается, когда операция требует статус scheduled
	ErrSessionNotScheduled = errors.New("booking: session is not scheduled")

	// ErrCannotCancel возвращается при попытке отменить завершённое занятие
	ErrCannotCancel = errors.New("booking: completed session cannot be cancelled")

	// ErrBusy возвращается, когда ресурс занят другим запросом дольше таймаута
	// Единственная ошибка, которую вызывающий может повторить без изменения запроса
	ErrBusy = errors.New("booking: resource is busy, retry later")

	// ErrInvariantViolation возвращается при нарушении инварианта календаря
	// Означает ошибку в дисциплине блокировок, а не отказ в бронировании
	ErrInvariantViolation = errors.New("booking: internal invariant violated")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("booking: internal error")
)

// IsRetryable сообщает, имеет ли смысл повторить тот же запрос
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBusy)
}

// IsRejection сообщает, является ли ошибка штатным бизнес-отказом
func IsRejection(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidCapacity),
		errors.Is(err, ErrTrainerUnavailable),
		errors.Is(err, ErrTrainerDoubleBooked),
		errors.Is(err, ErrRoomDoubleBooked),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrClassNotFound),
		errors.Is(err, ErrSessionNotScheduled),
		errors.Is(err, ErrCannotCancel):
		return true
	}
	return false
}

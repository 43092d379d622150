package availability

import "errors"

var (
	// ErrWindowNotFound возвращается, когда окно доступности не найдено
	ErrWindowNotFound = errors.New("availability window not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidRange возвращается при некорректном интервале окна
	ErrInvalidRange = errors.New("invalid time range")

	// ErrBusy возвращается, когда тренер занят другим запросом дольше таймаута
	ErrBusy = errors.New("trainer is busy, retry later")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

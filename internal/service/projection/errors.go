package projection

import "errors"

var (
	// ErrLoad возвращается, когда не удалось прочитать состояние из БД
	ErrLoad = errors.New("projection: failed to load state")

	// ErrCorrupt возвращается, когда сохранённые брони нарушают инвариант календаря
	// Сервис с такой проекцией запускать нельзя
	ErrCorrupt = errors.New("projection: stored bookings violate calendar invariant")
)

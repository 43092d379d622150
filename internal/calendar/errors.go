package calendar

import "errors"

var (
	// ErrOverlap возвращается, когда коммит нарушает инвариант календаря
	// Означает ошибку в дисциплине блокировок: вызывающий обязан проверить пересечение заранее
	ErrOverlap = errors.New("calendar: committed interval overlaps an existing entry")

	// ErrDuplicateRef возвращается при повторном коммите той же брони на ресурс
	ErrDuplicateRef = errors.New("calendar: booking already committed for resource")
)

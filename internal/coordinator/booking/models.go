package booking

import (
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// PersonalSessionRequest запрос на бронирование персонального занятия
type PersonalSessionRequest struct {
	MemberID  int64           // ID участника
	TrainerID int64           // ID тренера
	RoomID    *int64          // ID зала (опционально)
	Range     domain.Interval // Интервал [start, end)
	Note      *string         // Заметка (опционально)
}

// ClassSessionRequest запрос на создание группового занятия
type ClassSessionRequest struct {
	ClassID   int64           // ID шаблона занятия
	TrainerID *int64          // ID тренера (опционально)
	RoomID    *int64          // ID зала (опционально)
	Range     domain.Interval // Интервал [start, end)
	Capacity  *int            // Вместимость (если nil - берётся из шаблона)
}

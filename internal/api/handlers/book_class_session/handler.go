package book_class_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/coordinator/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ClubBookingService/pkg/ptr"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidInput        = "некорректные данные запроса"
	msgInvalidRange        = "некорректный интервал: начало должно быть раньше конца"
	msgInvalidCapacity     = "некорректная вместимость занятия"
	msgClassNotFound       = "шаблон занятия не найден"
	msgTrainerDoubleBooked = "тренер уже занят в выбранный интервал"
	msgRoomDoubleBooked    = "зал уже занят в выбранный интервал"
)

type Handler struct {
	coordinator BookingCoordinator
	logger      Logger
}

func NewHandler(coordinator BookingCoordinator, logger Logger) *Handler {
	return &Handler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// Handle POST /api/v1/class-sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookClassSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /class-sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.coordinator.BookClassSession(r.Context(), req.ToCoordinatorRequest())
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidRange):
			h.logger.Warn("POST /class-sessions - Invalid range: class_id=%d", req.ClassID)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, booking.ErrInvalidCapacity):
			h.logger.Warn("POST /class-sessions - Invalid capacity: class_id=%d", req.ClassID)
			handlers.RespondBadRequest(w, msgInvalidCapacity)

		case errors.Is(err, booking.ErrInvalidInput):
			h.logger.Warn("POST /class-sessions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, booking.ErrClassNotFound):
			h.logger.Warn("POST /class-sessions - Class not found: class_id=%d", req.ClassID)
			handlers.RespondNotFound(w, msgClassNotFound)

		case errors.Is(err, booking.ErrTrainerDoubleBooked):
			h.logger.Warn("POST /class-sessions - Trainer double booked: trainer_id=%d", ptr.Value(req.TrainerID))
			handlers.RespondConflict(w, msgTrainerDoubleBooked)

		case errors.Is(err, booking.ErrRoomDoubleBooked):
			h.logger.Warn("POST /class-sessions - Room double booked: room_id=%d", ptr.Value(req.RoomID))
			handlers.RespondConflict(w, msgRoomDoubleBooked)

		case booking.IsRetryable(err):
			h.logger.Warn("POST /class-sessions - Busy: class_id=%d", req.ClassID)
			handlers.RespondBusy(w)

		default:
			h.logger.Error("POST /class-sessions - Failed to create session: class_id=%d, error=%v", req.ClassID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /class-sessions - Session created successfully: session_id=%d, class_id=%d, capacity=%d",
		session.ID, session.ClassID, session.Capacity)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainClassSession(session))
}

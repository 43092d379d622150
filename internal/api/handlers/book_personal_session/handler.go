package book_personal_session

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
	msgTrainerUnavailable  = "тренер недоступен в выбранный интервал"
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

// Handle POST /api/v1/personal-sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookPersonalSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /personal-sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.coordinator.BookPersonalSession(r.Context(), req.ToCoordinatorRequest())
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidRange):
			h.logger.Warn("POST /personal-sessions - Invalid range: member_id=%d, trainer_id=%d", req.MemberID, req.TrainerID)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, booking.ErrInvalidInput):
			h.logger.Warn("POST /personal-sessions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, booking.ErrTrainerUnavailable):
			h.logger.Warn("POST /personal-sessions - Trainer unavailable: trainer_id=%d", req.TrainerID)
			handlers.RespondConflict(w, msgTrainerUnavailable)

		case errors.Is(err, booking.ErrTrainerDoubleBooked):
			h.logger.Warn("POST /personal-sessions - Trainer double booked: trainer_id=%d", req.TrainerID)
			handlers.RespondConflict(w, msgTrainerDoubleBooked)

		case errors.Is(err, booking.ErrRoomDoubleBooked):
			h.logger.Warn("POST /personal-sessions - Room double booked: room_id=%d", ptr.Value(req.RoomID))
			handlers.RespondConflict(w, msgRoomDoubleBooked)

		case booking.IsRetryable(err):
			h.logger.Warn("POST /personal-sessions - Busy: trainer_id=%d", req.TrainerID)
			handlers.RespondBusy(w)

		default:
			h.logger.Error("POST /personal-sessions - Failed to book session: member_id=%d, trainer_id=%d, error=%v",
				req.MemberID, req.TrainerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /personal-sessions - Session booked successfully: session_id=%d, member_id=%d, trainer_id=%d",
		session.ID, session.MemberID, session.TrainerID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainPersonalSession(session))
}

package reschedule_personal_session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/coordinator/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/schedule/models"
)

const (
	msgInvalidSessionID    = "некорректный ID занятия"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidRange        = "некорректный интервал: начало должно быть раньше конца"
	msgNotFound            = "занятие не найдено"
	msgNotScheduled        = "перенести можно только запланированное занятие"
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

// Handle PATCH /api/v1/personal-sessions/{sessionId}/reschedule
// Возвращает новое занятие; прежнее переходит в статус cancelled
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.ParseID(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("PATCH /personal-sessions/{id}/reschedule - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /personal-sessions/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.coordinator.ReschedulePersonalSession(r.Context(), sessionID, req.ToInterval())
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidRange), errors.Is(err, booking.ErrInvalidInput):
			h.logger.Warn("PATCH /personal-sessions/{id}/reschedule - Invalid range: session_id=%d", sessionID)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, booking.ErrSessionNotFound):
			h.logger.Warn("PATCH /personal-sessions/{id}/reschedule - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, booking.ErrSessionNotScheduled):
			h.logger.Warn("PATCH /personal-sessions/{id}/reschedule - Not scheduled: session_id=%d", sessionID)
			handlers.RespondConflict(w, msgNotScheduled)

		case errors.Is(err, booking.ErrTrainerUnavailable):
			h.logger.Warn("PATCH /personal-sessions/{id}/reschedule - Trainer unavailable: session_id=%d", sessionID)
			handlers.RespondConflict(w, msgTrainerUnavailable)

		case errors.Is(err, booking.ErrTrainerDoubleBooked):
			h.logger.Warn("PATCH /personal-sessions/{id}/reschedule - Trainer double booked: session_id=%d", sessionID)
			handlers.RespondConflict(w, msgTrainerDoubleBooked)

		case errors.Is(err, booking.ErrRoomDoubleBooked):
			h.logger.Warn("PATCH /personal-sessions/{id}/reschedule - Room double booked: session_id=%d", sessionID)
			handlers.RespondConflict(w, msgRoomDoubleBooked)

		case booking.IsRetryable(err):
			h.logger.Warn("PATCH /personal-sessions/{id}/reschedule - Busy: session_id=%d", sessionID)
			handlers.RespondBusy(w)

		default:
			h.logger.Error("PATCH /personal-sessions/{id}/reschedule - Failed to reschedule: session_id=%d, error=%v",
				sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /personal-sessions/{id}/reschedule - Session rescheduled: old_id=%d, new_id=%d",
		sessionID, session.ID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainPersonalSession(session))
}

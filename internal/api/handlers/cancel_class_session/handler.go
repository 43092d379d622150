package cancel_class_session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/coordinator/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/schedule/models"
)

const (
	msgInvalidSessionID = "некорректный ID занятия"
	msgNotFound         = "групповое занятие не найдено"
	msgCannotCancel     = "проведённое занятие не может быть отменено"
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

// Handle PATCH /api/v1/class-sessions/{sessionId}/cancel
// Отмена освобождает тренера и зал и закрывает запись на занятие
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.ParseID(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("PATCH /class-sessions/{id}/cancel - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	session, err := h.coordinator.CancelClassSession(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSessionNotFound):
			h.logger.Warn("PATCH /class-sessions/{id}/cancel - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, booking.ErrCannotCancel):
			h.logger.Warn("PATCH /class-sessions/{id}/cancel - Cannot cancel: session_id=%d", sessionID)
			handlers.RespondConflict(w, msgCannotCancel)

		case booking.IsRetryable(err):
			h.logger.Warn("PATCH /class-sessions/{id}/cancel - Busy: session_id=%d", sessionID)
			handlers.RespondBusy(w)

		default:
			h.logger.Error("PATCH /class-sessions/{id}/cancel - Failed to cancel session: session_id=%d, error=%v",
				sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /class-sessions/{id}/cancel - Session cancelled successfully: session_id=%d", sessionID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainClassSession(session))
}

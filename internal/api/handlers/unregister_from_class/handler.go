package unregister_from_class

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/coordinator/registration"
)

const (
	msgInvalidSessionID = "некорректный ID занятия"
	msgInvalidMemberID  = "некорректный ID участника"
	msgNotFound         = "групповое занятие не найдено"
	msgNotScheduled     = "запись на занятие закрыта"
	msgNotRegistered    = "участник не записан на занятие"
)

type Handler struct {
	coordinator RegistrationCoordinator
	logger      Logger
}

func NewHandler(coordinator RegistrationCoordinator, logger Logger) *Handler {
	return &Handler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// Handle DELETE /api/v1/class-sessions/{sessionId}/registrations/{memberId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	sessionID, err := handlers.ParseID(vars["sessionId"])
	if err != nil {
		h.logger.Warn("DELETE /class-sessions/{id}/registrations/{memberId} - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}
	memberID, err := handlers.ParseID(vars["memberId"])
	if err != nil {
		h.logger.Warn("DELETE /class-sessions/{id}/registrations/{memberId} - Invalid member ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMemberID)
		return
	}

	if err := h.coordinator.Unregister(r.Context(), sessionID, memberID); err != nil {
		switch {
		case errors.Is(err, registration.ErrSessionNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, registration.ErrNotRegistered):
			h.logger.Warn("DELETE /class-sessions/{id}/registrations/{memberId} - Not registered: session_id=%d, member_id=%d",
				sessionID, memberID)
			handlers.RespondNotFound(w, msgNotRegistered)

		case errors.Is(err, registration.ErrSessionNotScheduled):
			handlers.RespondConflict(w, msgNotScheduled)

		case registration.IsRetryable(err):
			h.logger.Warn("DELETE /class-sessions/{id}/registrations/{memberId} - Busy: session_id=%d", sessionID)
			handlers.RespondBusy(w)

		default:
			h.logger.Error("DELETE /class-sessions/{id}/registrations/{memberId} - Failed to unregister: session_id=%d, member_id=%d, error=%v",
				sessionID, memberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /class-sessions/{id}/registrations/{memberId} - Member unregistered: session_id=%d, member_id=%d",
		sessionID, memberID)
	w.WriteHeader(http.StatusNoContent)
}

package register_for_class

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/coordinator/registration"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/schedule/models"
)

const (
	msgInvalidSessionID   = "некорректный ID занятия"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные запроса"
	msgNotFound           = "групповое занятие не найдено"
	msgNotScheduled       = "запись на занятие закрыта"
	msgCapacityExceeded   = "на занятии не осталось свободных мест"
	msgAlreadyRegistered  = "участник уже записан на занятие"
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

// Handle POST /api/v1/class-sessions/{sessionId}/registrations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.ParseID(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("POST /class-sessions/{id}/registrations - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	var req RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /class-sessions/{id}/registrations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	reg, err := h.coordinator.Register(r.Context(), sessionID, req.MemberID)
	if err != nil {
		switch {
		case errors.Is(err, registration.ErrInvalidInput):
			h.logger.Warn("POST /class-sessions/{id}/registrations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, registration.ErrSessionNotFound):
			h.logger.Warn("POST /class-sessions/{id}/registrations - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, registration.ErrSessionNotScheduled):
			h.logger.Warn("POST /class-sessions/{id}/registrations - Not scheduled: session_id=%d", sessionID)
			handlers.RespondConflict(w, msgNotScheduled)

		case errors.Is(err, registration.ErrCapacityExceeded):
			h.logger.Warn("POST /class-sessions/{id}/registrations - Capacity exceeded: session_id=%d, member_id=%d",
				sessionID, req.MemberID)
			handlers.RespondConflict(w, msgCapacityExceeded)

		case errors.Is(err, registration.ErrAlreadyRegistered):
			h.logger.Warn("POST /class-sessions/{id}/registrations - Already registered: session_id=%d, member_id=%d",
				sessionID, req.MemberID)
			handlers.RespondConflict(w, msgAlreadyRegistered)

		case registration.IsRetryable(err):
			h.logger.Warn("POST /class-sessions/{id}/registrations - Busy: session_id=%d", sessionID)
			handlers.RespondBusy(w)

		default:
			h.logger.Error("POST /class-sessions/{id}/registrations - Failed to register: session_id=%d, member_id=%d, error=%v",
				sessionID, req.MemberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /class-sessions/{id}/registrations - Member registered: session_id=%d, member_id=%d",
		sessionID, req.MemberID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainRegistration(reg))
}

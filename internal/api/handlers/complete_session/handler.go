package complete_session

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
	msgNotFound         = "занятие не найдено"
	msgCancelled        = "отменённое занятие не может быть проведено"
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

// HandlePersonal PATCH /api/v1/personal-sessions/{sessionId}/complete
func (h *Handler) HandlePersonal(w http.ResponseWriter, r *http.Request) {
	const route = "PATCH /personal-sessions/{id}/complete"

	sessionID, ok := h.sessionID(w, r, route)
	if !ok {
		return
	}

	session, err := h.coordinator.CompletePersonalSession(r.Context(), sessionID)
	if err != nil {
		h.respondError(w, route, sessionID, err)
		return
	}

	h.logger.Info("%s - Session completed: session_id=%d", route, sessionID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainPersonalSession(session))
}

// HandleClass PATCH /api/v1/class-sessions/{sessionId}/complete
func (h *Handler) HandleClass(w http.ResponseWriter, r *http.Request) {
	const route = "PATCH /class-sessions/{id}/complete"

	sessionID, ok := h.sessionID(w, r, route)
	if !ok {
		return
	}

	session, err := h.coordinator.CompleteClassSession(r.Context(), sessionID)
	if err != nil {
		h.respondError(w, route, sessionID, err)
		return
	}

	h.logger.Info("%s - Session completed: session_id=%d", route, sessionID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainClassSession(session))
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	sessionID, err := handlers.ParseID(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("%s - Invalid session ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return 0, false
	}
	return sessionID, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, sessionID int64, err error) {
	switch {
	case errors.Is(err, booking.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found: session_id=%d", route, sessionID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, booking.ErrSessionNotScheduled):
		h.logger.Warn("%s - Session cancelled: session_id=%d", route, sessionID)
		handlers.RespondConflict(w, msgCancelled)

	case booking.IsRetryable(err):
		h.logger.Warn("%s - Busy: session_id=%d", route, sessionID)
		handlers.RespondBusy(w)

	default:
		h.logger.Error("%s - Failed to complete session: session_id=%d, error=%v", route, sessionID, err)
		handlers.RespondInternalError(w)
	}
}

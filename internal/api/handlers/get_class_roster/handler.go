package get_class_roster

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/schedule"
)

const (
	msgInvalidSessionID = "некорректный ID занятия"
	msgNotFound         = "групповое занятие не найдено"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/class-sessions/{sessionId}/registrations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.ParseID(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("GET /class-sessions/{id}/registrations - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	roster, err := h.service.ClassRoster(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, schedule.ErrSessionNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /class-sessions/{id}/registrations - Failed to get roster: session_id=%d, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, roster)
}

package manage_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/availability"
)

const (
	msgInvalidTrainerID   = "некорректный ID тренера"
	msgInvalidWindowID    = "некорректный ID окна доступности"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные запроса"
	msgInvalidRange       = "некорректный интервал: начало должно быть раньше конца"
	msgNotFound           = "окно доступности не найдено"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/trainers/{trainerId}/availability
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	trainerID, err := handlers.ParseID(mux.Vars(r)["trainerId"])
	if err != nil {
		h.logger.Warn("GET /trainers/{id}/availability - Invalid trainer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTrainerID)
		return
	}

	resp, err := h.service.ListWindows(r.Context(), trainerID)
	if err != nil {
		h.logger.Error("GET /trainers/{id}/availability - Failed to list windows: trainer_id=%d, error=%v", trainerID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleAdd POST /api/v1/trainers/{trainerId}/availability
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	trainerID, err := handlers.ParseID(mux.Vars(r)["trainerId"])
	if err != nil {
		h.logger.Warn("POST /trainers/{id}/availability - Invalid trainer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTrainerID)
		return
	}

	var req AddWindowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /trainers/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.AddWindow(r.Context(), req.ToServiceRequest(trainerID))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)
		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		case errors.Is(err, availability.ErrBusy):
			handlers.RespondBusy(w)
		default:
			h.logger.Error("POST /trainers/{id}/availability - Failed to add window: trainer_id=%d, error=%v", trainerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /trainers/{id}/availability - Window added: window_id=%d, trainer_id=%d", resp.ID, trainerID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// HandleDelete DELETE /api/v1/availability/{windowId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	windowID, err := handlers.ParseID(mux.Vars(r)["windowId"])
	if err != nil {
		h.logger.Warn("DELETE /availability/{id} - Invalid window ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindowID)
		return
	}

	if err := h.service.DeleteWindow(r.Context(), windowID); err != nil {
		switch {
		case errors.Is(err, availability.ErrWindowNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, availability.ErrBusy):
			handlers.RespondBusy(w)
		default:
			h.logger.Error("DELETE /availability/{id} - Failed to delete window: window_id=%d, error=%v", windowID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /availability/{id} - Window deleted: window_id=%d", windowID)
	w.WriteHeader(http.StatusNoContent)
}

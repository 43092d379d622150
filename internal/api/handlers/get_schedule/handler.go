package get_schedule

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/schedule"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/schedule/models"
)

const (
	msgInvalidTrainerID       = "некорректный ID тренера"
	msgInvalidRoomID          = "некорректный ID зала"
	msgInvalidFrom            = "некорректный параметр from, ожидается RFC 3339"
	msgInvalidTo              = "некорректный параметр to, ожидается RFC 3339"
	msgInvalidIncludeInactive = "некорректный параметр includeInactive, ожидается true или false"
	msgInvalidRange           = "некорректный период: from должен быть раньше to"
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

// HandleTrainer GET /api/v1/trainers/{trainerId}/schedule?from=...&to=...&includeInactive=true
func (h *Handler) HandleTrainer(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "GET /trainers/{id}/schedule", "trainerId", msgInvalidTrainerID, h.service.TrainerSchedule)
}

// HandleRoom GET /api/v1/rooms/{roomId}/schedule?from=...&to=...&includeInactive=true
func (h *Handler) HandleRoom(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "GET /rooms/{id}/schedule", "roomId", msgInvalidRoomID, h.service.RoomSchedule)
}

type scheduleFunc func(ctx context.Context, req *models.ScheduleRequest) (*models.ScheduleResponse, error)

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route, idVar, msgInvalidID string, fetch scheduleFunc) {
	resourceID, err := handlers.ParseID(mux.Vars(r)[idVar])
	if err != nil {
		h.logger.Warn("%s - Invalid resource ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	query := r.URL.Query()
	req := &models.ScheduleRequest{ResourceID: resourceID}

	if req.From, err = handlers.ParseTime(query.Get("from")); err != nil {
		h.logger.Warn("%s - Invalid from: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidFrom)
		return
	}
	if req.To, err = handlers.ParseTime(query.Get("to")); err != nil {
		h.logger.Warn("%s - Invalid to: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidTo)
		return
	}
	if raw := query.Get("includeInactive"); raw != "" {
		if req.IncludeInactive, err = strconv.ParseBool(raw); err != nil {
			h.logger.Warn("%s - Invalid includeInactive: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidIncludeInactive)
			return
		}
	}

	resp, err := fetch(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidID)
		default:
			h.logger.Error("%s - Failed to get schedule: resource_id=%d, error=%v", route, resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

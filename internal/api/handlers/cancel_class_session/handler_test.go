package cancel_class_session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClubBookingService/internal/coordinator/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

type MockCoordinator struct{ mock.Mock }

func (m *MockCoordinator) CancelClassSession(ctx context.Context, sessionID int64) (*domain.ClassSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassSession), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/class-sessions/{sessionId}/cancel", h.Handle).Methods(http.MethodPatch)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, path, nil))
	return rec
}

func TestHandle_Cancelled(t *testing.T) {
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	coord := new(MockCoordinator)
	coord.On("CancelClassSession", mock.Anything, int64(3)).Return(&domain.ClassSession{
		ID:       3,
		ClassID:  1,
		Range:    domain.Interval{Start: start, End: start.Add(time.Hour)},
		Capacity: 12,
		Status:   domain.StatusCancelled,
	}, nil)

	rec := serve(NewHandler(coord, nopLogger{}), "/api/v1/class-sessions/3/cancel")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cancelled", resp["status"])
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: booking.ErrSessionNotFound, wantStatus: http.StatusNotFound},
		{name: "completed", err: booking.ErrCannotCancel, wantStatus: http.StatusConflict},
		{name: "busy", err: booking.ErrBusy, wantStatus: http.StatusServiceUnavailable},
		{name: "internal", err: booking.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coord := new(MockCoordinator)
			coord.On("CancelClassSession", mock.Anything, int64(3)).Return(nil, tt.err)

			rec := serve(NewHandler(coord, nopLogger{}), "/api/v1/class-sessions/3/cancel")

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_InvalidID(t *testing.T) {
	coord := new(MockCoordinator)

	rec := serve(NewHandler(coord, nopLogger{}), "/api/v1/class-sessions/-1/cancel")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	coord.AssertNotCalled(t, "CancelClassSession", mock.Anything, mock.Anything)
}

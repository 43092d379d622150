package register_for_class

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ClubBookingService/internal/coordinator/registration"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

type MockCoordinator struct{ mock.Mock }

func (m *MockCoordinator) Register(ctx context.Context, sessionID, memberID int64) (*domain.ClassRegistration, error) {
	args := m.Called(ctx, sessionID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassRegistration), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/class-sessions/{sessionId}/registrations", h.Handle).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "registered", err: nil, wantStatus: http.StatusCreated},
		{name: "capacity exceeded", err: registration.ErrCapacityExceeded, wantStatus: http.StatusConflict},
		{name: "already registered", err: registration.ErrAlreadyRegistered, wantStatus: http.StatusConflict},
		{name: "not scheduled", err: registration.ErrSessionNotScheduled, wantStatus: http.StatusConflict},
		{name: "session not found", err: registration.ErrSessionNotFound, wantStatus: http.StatusNotFound},
		{name: "busy", err: registration.ErrBusy, wantStatus: http.StatusServiceUnavailable},
		{name: "internal", err: registration.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coord := new(MockCoordinator)
			if tt.err == nil {
				coord.On("Register", mock.Anything, int64(31), int64(100)).
					Return(&domain.ClassRegistration{ClassSessionID: 31, MemberID: 100}, nil)
			} else {
				coord.On("Register", mock.Anything, int64(31), int64(100)).Return(nil, tt.err)
			}

			rec := serve(NewHandler(coord, nopLogger{}), "/api/v1/class-sessions/31/registrations", `{"memberId":100}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			coord.AssertExpectations(t)
		})
	}
}

func TestHandle_InvalidSessionID(t *testing.T) {
	coord := new(MockCoordinator)

	rec := serve(NewHandler(coord, nopLogger{}), "/api/v1/class-sessions/abc/registrations", `{"memberId":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	coord.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

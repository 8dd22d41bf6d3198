package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/userservice/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func availabilityRouter(availability AvailabilityService) chi.Router {
	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		NewAvailabilityHandler(availability).RegisterRoutes(r)
	})
	return r
}

func TestAvailabilityHandler_AddAvailability(t *testing.T) {
	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	end := start.Add(2 * time.Hour)

	var gotWorker int64
	availability := &MockAvailabilityService{
		AddFunc: func(ctx context.Context, s, e time.Time, workerID int64) (*models.Availability, error) {
			gotWorker = workerID
			return &models.Availability{ID: 9, UserID: workerID, StartTime: s, EndTime: e}, nil
		},
	}

	body := map[string]interface{}{"start_time": start, "end_time": end, "worker_id": 4}
	w := httptest.NewRecorder()
	availabilityRouter(availability).ServeHTTP(w, NewTestRequest(t, http.MethodPost, "/users/availability", body))

	var resp models.Availability
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, int64(4), gotWorker)
	assert.Equal(t, int64(9), resp.ID)
	assert.True(t, start.Equal(resp.StartTime))
}

func TestAvailabilityHandler_AddAvailability_Errors(t *testing.T) {
	future := time.Now().Add(time.Hour).UTC()
	past := time.Now().Add(-time.Hour).UTC()

	tests := []struct {
		name       string
		body       map[string]interface{}
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "start in the past",
			body:       map[string]interface{}{"start_time": past, "end_time": future, "worker_id": 4},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "missing worker",
			body:       map[string]interface{}{"start_time": future, "end_time": future.Add(time.Hour)},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "end before start",
			body:       map[string]interface{}{"start_time": future.Add(time.Hour), "end_time": future, "worker_id": 4},
			serviceErr: fmt.Errorf("%w: start time must be before end time", models.ErrInvalidTimeFormat),
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_time_format",
		},
		{
			name:       "overlapping window",
			body:       map[string]interface{}{"start_time": future, "end_time": future.Add(time.Hour), "worker_id": 4},
			serviceErr: fmt.Errorf("%w: user 4 is busy", models.ErrUserUnavailable),
			wantStatus: http.StatusConflict,
			wantCode:   "user_unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			availability := &MockAvailabilityService{
				AddFunc: func(ctx context.Context, s, e time.Time, workerID int64) (*models.Availability, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.Availability{ID: 1, UserID: workerID, StartTime: s, EndTime: e}, nil
				},
			}

			w := httptest.NewRecorder()
			availabilityRouter(availability).ServeHTTP(w, NewTestRequest(t, http.MethodPost, "/users/availability", tt.body))

			AssertErrorResponse(t, w, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestAvailabilityHandler_GetAvailability(t *testing.T) {
	w := httptest.NewRecorder()
	availabilityRouter(&MockAvailabilityService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/4/availability", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	unknown := &MockAvailabilityService{
		GetFunc: func(ctx context.Context, userID int64) ([]*models.Availability, error) {
			return nil, fmt.Errorf("%w: user with id %d", models.ErrNotFound, userID)
		},
	}
	w = httptest.NewRecorder()
	availabilityRouter(unknown).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/4/availability", nil))
	AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}

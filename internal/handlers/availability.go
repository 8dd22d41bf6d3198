package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/BradenHooton/userservice/internal/models"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	"github.com/go-chi/chi/v5"
)

// AvailabilityService defines the availability operations exposed over HTTP
type AvailabilityService interface {
	GetAvailabilityForUser(ctx context.Context, userID int64) ([]*models.Availability, error)
	AddAvailability(ctx context.Context, startTime, endTime time.Time, workerID int64) (*models.Availability, error)
}

// AvailabilityHandler handles busy-window requests
type AvailabilityHandler struct {
	service AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(service AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// AvailabilityRequest books a window for a worker. Both ends must be in the future.
type AvailabilityRequest struct {
	StartTime time.Time `json:"start_time" validate:"required,gt"`
	EndTime   time.Time `json:"end_time" validate:"required,gt"`
	WorkerID  int64     `json:"worker_id" validate:"required,gt=0"`
}

// RegisterRoutes registers availability routes on a router already scoped to /users
func (h *AvailabilityHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{id}/availability", h.GetAvailability)
	r.Post("/availability", h.AddAvailability)
}

// GetAvailability lists a worker's booked windows
//
// @Summary List availability windows
// @Param id path int true "User ID"
// @Produce json
// @Success 200 {array} models.Availability
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/availability [get]
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	windows, err := h.service.GetAvailabilityForUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if windows == nil {
		windows = []*models.Availability{}
	}
	pkghttp.WriteJSON(w, http.StatusOK, windows)
}

// AddAvailability books a window unless it conflicts with an existing one
//
// @Summary Add availability window
// @Accept json
// @Param request body AvailabilityRequest true "Window"
// @Produce json
// @Success 200 {object} models.Availability
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/availability [post]
func (h *AvailabilityHandler) AddAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	window, err := h.service.AddAvailability(r.Context(), req.StartTime, req.EndTime, req.WorkerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, window)
}

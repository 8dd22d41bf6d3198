package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/userservice/internal/auth"
	"github.com/BradenHooton/userservice/internal/models"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	"github.com/go-chi/chi/v5"
)

// PreferenceService defines the preference operations exposed over HTTP
type PreferenceService interface {
	SetPreferences(ctx context.Context, prefs *models.Preferences) (*models.Preferences, error)
	UpdatePreferences(ctx context.Context, prefs *models.Preferences) (*models.Preferences, error)
	GetPreferences(ctx context.Context, userID int64) (*models.Preferences, error)
}

// PreferenceHandler handles job-matching preference requests
type PreferenceHandler struct {
	service PreferenceService
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(service PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

// PreferencesRequest is the caller's full preference set; categories are job category names
type PreferencesRequest struct {
	PreferredDistance   *float64             `json:"preferred_distance" validate:"required,gte=0"`
	PreferredExperience *int                 `json:"preferred_experience" validate:"required,gte=0"`
	WantedCategories    []models.JobCategory `json:"wanted_categories" validate:"required"`
}

// PreferencesResponse represents stored preferences
type PreferencesResponse struct {
	UserID              int64                `json:"user_id"`
	PreferredDistance   float64              `json:"preferred_distance"`
	PreferredExperience int                  `json:"preferred_experience"`
	WantedCategories    []models.JobCategory `json:"wanted_categories"`
}

func preferencesToResponse(p *models.Preferences) *PreferencesResponse {
	categories := p.WantedCategories
	if categories == nil {
		categories = []models.JobCategory{}
	}
	return &PreferencesResponse{
		UserID:              p.UserID,
		PreferredDistance:   p.PreferredDistance,
		PreferredExperience: p.PreferredExperience,
		WantedCategories:    categories,
	}
}

// RegisterRoutes registers preference routes
func (h *PreferenceHandler) RegisterRoutes(router chi.Router) {
	router.Route("/preferences", func(r chi.Router) {
		r.Post("/", h.SetPreferences)
		r.Put("/", h.UpdatePreferences)
		r.Get("/{userId}", h.GetPreferences)
	})
}

// SetPreferences stores the caller's preferences for the first time
//
// @Summary Set preferences
// @Accept json
// @Param request body PreferencesRequest true "Preferences"
// @Produce json
// @Success 201 {object} PreferencesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /preferences [post]
func (h *PreferenceHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.callerPreferences(w, r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	saved, err := h.service.SetPreferences(r.Context(), prefs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, preferencesToResponse(saved))
}

// UpdatePreferences replaces the caller's preferences
//
// @Summary Update preferences
// @Accept json
// @Param request body PreferencesRequest true "Preferences"
// @Produce json
// @Success 200 {object} PreferencesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /preferences [put]
func (h *PreferenceHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.callerPreferences(w, r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	saved, err := h.service.UpdatePreferences(r.Context(), prefs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, preferencesToResponse(saved))
}

func (h *PreferenceHandler) callerPreferences(w http.ResponseWriter, r *http.Request) (*models.Preferences, error) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		return nil, err
	}

	var req PreferencesRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return nil, err
	}

	return &models.Preferences{
		UserID:              userID,
		PreferredDistance:   *req.PreferredDistance,
		PreferredExperience: *req.PreferredExperience,
		WantedCategories:    req.WantedCategories,
	}, nil
}

// GetPreferences returns a user's preferences
//
// @Summary Get preferences
// @Param userId path int true "User ID"
// @Produce json
// @Success 200 {object} PreferencesResponse
// @Failure 404 {object} ErrorResponse
// @Router /preferences/{userId} [get]
func (h *PreferenceHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, preferencesToResponse(prefs))
}

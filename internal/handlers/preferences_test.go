package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/userservice/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preferenceRouter(prefs PreferenceService) chi.Router {
	r := chi.NewRouter()
	NewPreferenceHandler(prefs).RegisterRoutes(r)
	return r
}

func TestPreferenceHandler_SetPreferences_UsesCaller(t *testing.T) {
	var got *models.Preferences
	prefs := &MockPreferenceService{
		SetFunc: func(ctx context.Context, p *models.Preferences) (*models.Preferences, error) {
			got = p
			return p, nil
		},
	}

	body := map[string]interface{}{
		"preferred_distance":   12.5,
		"preferred_experience": 3,
		"wanted_categories":    []string{"PLUMBER", "ELECTRICIAN"},
	}
	req := WithAuthContext(NewTestRequest(t, http.MethodPost, "/preferences", body), 11)
	w := httptest.NewRecorder()
	preferenceRouter(prefs).ServeHTTP(w, req)

	var resp map[string]interface{}
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	require.NotNil(t, got)
	assert.Equal(t, int64(11), got.UserID)
	assert.Equal(t, 12.5, got.PreferredDistance)
	assert.Equal(t, []interface{}{"PLUMBER", "ELECTRICIAN"}, resp["wanted_categories"])
}

func TestPreferenceHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"negative distance", map[string]interface{}{"preferred_distance": -1, "preferred_experience": 0, "wanted_categories": []string{}}},
		{"missing experience", map[string]interface{}{"preferred_distance": 1, "wanted_categories": []string{}}},
		{"unknown category", map[string]interface{}{"preferred_distance": 1, "preferred_experience": 0, "wanted_categories": []string{"ASTRONAUT"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := WithAuthContext(NewTestRequest(t, http.MethodPut, "/preferences", tt.body), 11)
			w := httptest.NewRecorder()
			preferenceRouter(&MockPreferenceService{}).ServeHTTP(w, req)

			AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
		})
	}
}

func TestPreferenceHandler_GetPreferences(t *testing.T) {
	prefs := &MockPreferenceService{
		GetFunc: func(ctx context.Context, userID int64) (*models.Preferences, error) {
			return &models.Preferences{UserID: userID, PreferredDistance: 5}, nil
		},
	}

	w := httptest.NewRecorder()
	preferenceRouter(prefs).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/preferences/11", nil))

	var resp PreferencesResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, int64(11), resp.UserID)
	assert.Empty(t, resp.WantedCategories)

	w = httptest.NewRecorder()
	preferenceRouter(&MockPreferenceService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/preferences/11", nil))
	AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}

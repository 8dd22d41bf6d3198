package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/BradenHooton/userservice/internal/auth"
	"github.com/BradenHooton/userservice/internal/models"
	"github.com/BradenHooton/userservice/internal/services"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds caller claims to request context for testing authenticated endpoints
func WithAuthContext(req *http.Request, userID int64) *http.Request {
	claims := &models.TokenClaims{
		UserID: strconv.FormatInt(userID, 10),
		Email:  "caller@example.com",
		Type:   "access",
	}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

// WithURLParams attaches chi route parameters so handlers can be called directly
func WithURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// noLimit stands in for the per-caller write limiter
func noLimit(next http.Handler) http.Handler { return next }

// MockBlockService implements BlockService for testing
type MockBlockService struct {
	BlockUserFunc   func(ctx context.Context, userID, blockedUserID int64) error
	UnblockUserFunc func(ctx context.Context, userID, blockedUserID int64) error
	ListFunc        func(ctx context.Context, userID int64, page, pageSize int) ([]int64, error)
}

func (m *MockBlockService) BlockUser(ctx context.Context, userID, blockedUserID int64) error {
	if m.BlockUserFunc == nil {
		return nil
	}
	return m.BlockUserFunc(ctx, userID, blockedUserID)
}

func (m *MockBlockService) UnblockUser(ctx context.Context, userID, blockedUserID int64) error {
	if m.UnblockUserFunc == nil {
		return nil
	}
	return m.UnblockUserFunc(ctx, userID, blockedUserID)
}

func (m *MockBlockService) GetBlockedUsersByUserID(ctx context.Context, userID int64, page, pageSize int) ([]int64, error) {
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx, userID, page, pageSize)
}

// MockFavoriteService implements FavoriteService for testing
type MockFavoriteService struct {
	AddFavoriteFunc    func(ctx context.Context, userID, favoriteUserID int64) (*models.Favorite, error)
	DeleteFavoriteFunc func(ctx context.Context, userID, favoriteUserID int64) error
	ListFunc           func(ctx context.Context, userID int64, page, pageSize int) ([]int64, error)
}

func (m *MockFavoriteService) AddFavorite(ctx context.Context, userID, favoriteUserID int64) (*models.Favorite, error) {
	if m.AddFavoriteFunc == nil {
		return &models.Favorite{
			ID:        models.FavoriteID{UserID: userID, FavoriteUserID: favoriteUserID},
			CreatedAt: time.Now(),
		}, nil
	}
	return m.AddFavoriteFunc(ctx, userID, favoriteUserID)
}

func (m *MockFavoriteService) DeleteFavorite(ctx context.Context, userID, favoriteUserID int64) error {
	if m.DeleteFavoriteFunc == nil {
		return nil
	}
	return m.DeleteFavoriteFunc(ctx, userID, favoriteUserID)
}

func (m *MockFavoriteService) GetFavoriteUsers(ctx context.Context, userID int64, page, pageSize int) ([]int64, error) {
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx, userID, page, pageSize)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	GetUserFunc            func(ctx context.Context, id int64) (*models.User, error)
	ListUsersFunc          func(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateUserFunc         func(ctx context.Context, user *models.User) (*models.User, error)
	EditUserFunc           func(ctx context.Context, id int64, update services.UserProfileUpdate) (*models.User, error)
	UpdateWorkingHoursFunc func(ctx context.Context, userID int64, start, end models.TimeOfDay) error
	DeleteUserFunc         func(ctx context.Context, id int64) error
	PhoneExistsFunc        func(ctx context.Context, phone string) (bool, error)
}

func (m *MockUserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if m.GetUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserFunc(ctx, id)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListUsersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListUsersFunc(ctx, limit, offset)
}

func (m *MockUserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateUserFunc == nil {
		return nil, models.ErrConflict
	}
	return m.CreateUserFunc(ctx, user)
}

func (m *MockUserService) EditUser(ctx context.Context, id int64, update services.UserProfileUpdate) (*models.User, error) {
	if m.EditUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.EditUserFunc(ctx, id, update)
}

func (m *MockUserService) UpdateWorkingHours(ctx context.Context, userID int64, start, end models.TimeOfDay) error {
	if m.UpdateWorkingHoursFunc == nil {
		return nil
	}
	return m.UpdateWorkingHoursFunc(ctx, userID, start, end)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id int64) error {
	if m.DeleteUserFunc == nil {
		return nil
	}
	return m.DeleteUserFunc(ctx, id)
}

func (m *MockUserService) PhoneExists(ctx context.Context, phone string) (bool, error) {
	if m.PhoneExistsFunc == nil {
		return false, nil
	}
	return m.PhoneExistsFunc(ctx, phone)
}

// MockPictureService implements PictureService for testing
type MockPictureService struct {
	AddFunc    func(ctx context.Context, userID int64, data []byte, filename string) (*models.User, error)
	DeleteFunc func(ctx context.Context, userID int64) (bool, error)
	GetFunc    func(ctx context.Context, userID int64) (*models.Image, error)
}

func (m *MockPictureService) AddProfilePicture(ctx context.Context, userID int64, data []byte, filename string) (*models.User, error) {
	if m.AddFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.AddFunc(ctx, userID, data, filename)
}

func (m *MockPictureService) DeleteProfilePicture(ctx context.Context, userID int64) (bool, error) {
	if m.DeleteFunc == nil {
		return false, nil
	}
	return m.DeleteFunc(ctx, userID)
}

func (m *MockPictureService) GetProfilePicture(ctx context.Context, userID int64) (*models.Image, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, userID)
}

// MockAvailabilityService implements AvailabilityService for testing
type MockAvailabilityService struct {
	GetFunc func(ctx context.Context, userID int64) ([]*models.Availability, error)
	AddFunc func(ctx context.Context, startTime, endTime time.Time, workerID int64) (*models.Availability, error)
}

func (m *MockAvailabilityService) GetAvailabilityForUser(ctx context.Context, userID int64) ([]*models.Availability, error) {
	if m.GetFunc == nil {
		return nil, nil
	}
	return m.GetFunc(ctx, userID)
}

func (m *MockAvailabilityService) AddAvailability(ctx context.Context, startTime, endTime time.Time, workerID int64) (*models.Availability, error) {
	if m.AddFunc == nil {
		return &models.Availability{ID: 1, UserID: workerID, StartTime: startTime, EndTime: endTime}, nil
	}
	return m.AddFunc(ctx, startTime, endTime, workerID)
}

// MockPreferenceService implements PreferenceService for testing
type MockPreferenceService struct {
	SetFunc    func(ctx context.Context, prefs *models.Preferences) (*models.Preferences, error)
	UpdateFunc func(ctx context.Context, prefs *models.Preferences) (*models.Preferences, error)
	GetFunc    func(ctx context.Context, userID int64) (*models.Preferences, error)
}

func (m *MockPreferenceService) SetPreferences(ctx context.Context, prefs *models.Preferences) (*models.Preferences, error) {
	if m.SetFunc == nil {
		return prefs, nil
	}
	return m.SetFunc(ctx, prefs)
}

func (m *MockPreferenceService) UpdatePreferences(ctx context.Context, prefs *models.Preferences) (*models.Preferences, error) {
	if m.UpdateFunc == nil {
		return prefs, nil
	}
	return m.UpdateFunc(ctx, prefs)
}

func (m *MockPreferenceService) GetPreferences(ctx context.Context, userID int64) (*models.Preferences, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, userID)
}

// NewTestUser returns a populated profile
func NewTestUser(id int64) *models.User {
	return &models.User{
		ID:        id,
		Name:      "Ada",
		Surname:   "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+1 555-123-4567",
		Address:   "12 Analytical St",
		City:      "London",
		ZipCode:   "N1",
		Country:   "UK",
		Birthday:  time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		Status:    models.StatusActive,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/userservice/internal/models"
	"github.com/BradenHooton/userservice/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRouter(users UserService) chi.Router {
	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		NewUserHandler(users).RegisterRoutes(r)
	})
	return r
}

func validCreateRequest() CreateUserRequest {
	return CreateUserRequest{
		ID:       42,
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "Ada@Example.com",
		Phone:    "+1 555-123-4567",
		Address:  "12 Analytical St",
		City:     "London",
		ZipCode:  "N1",
		Country:  "UK",
		Birthday: "1990-12-10",
	}
}

func TestUserHandler_CreateUser(t *testing.T) {
	var stored *models.User
	users := &MockUserService{
		CreateUserFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			stored = user
			user.Status = models.StatusActive
			return user, nil
		},
	}

	w := httptest.NewRecorder()
	userRouter(users).ServeHTTP(w, NewTestRequest(t, http.MethodPost, "/users", validCreateRequest()))

	var resp UserResponse
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	require.NotNil(t, stored)
	assert.Equal(t, "ada@example.com", stored.Email)
	assert.Equal(t, time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC), stored.Birthday)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "1990-12-10", resp.Birthday)
	assert.Equal(t, models.StatusActive, resp.Status)
	assert.False(t, resp.HasProfilePicture)
}

func TestUserHandler_CreateUser_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateUserRequest)
	}{
		{"missing id", func(r *CreateUserRequest) { r.ID = 0 }},
		{"short name", func(r *CreateUserRequest) { r.Name = "A" }},
		{"bad email", func(r *CreateUserRequest) { r.Email = "not-an-email" }},
		{"bad phone", func(r *CreateUserRequest) { r.Phone = "12" }},
		{"bad birthday", func(r *CreateUserRequest) { r.Birthday = "10/12/1990" }},
		{"future birthday", func(r *CreateUserRequest) { r.Birthday = time.Now().AddDate(1, 0, 0).Format(dateLayout) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			w := httptest.NewRecorder()
			userRouter(&MockUserService{}).ServeHTTP(w, NewTestRequest(t, http.MethodPost, "/users", req))

			AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
		})
	}
}

func TestUserHandler_CreateUser_Conflict(t *testing.T) {
	w := httptest.NewRecorder()
	userRouter(&MockUserService{}).ServeHTTP(w, NewTestRequest(t, http.MethodPost, "/users", validCreateRequest()))

	AssertErrorResponse(t, w, http.StatusConflict, "conflict")
}

func TestUserHandler_CreateUser_EmptyBody(t *testing.T) {
	w := httptest.NewRecorder()
	userRouter(&MockUserService{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users", nil))

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestUserHandler_GetUser(t *testing.T) {
	users := &MockUserService{
		GetUserFunc: func(ctx context.Context, id int64) (*models.User, error) {
			user := NewTestUser(id)
			start, end := models.NewTimeOfDay(9, 0), models.NewTimeOfDay(17, 30)
			user.StartTime, user.EndTime = &start, &end
			return user, nil
		},
	}

	w := httptest.NewRecorder()
	userRouter(users).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/5", nil))

	var resp map[string]interface{}
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, float64(5), resp["id"])
	assert.Equal(t, "ACTIVE", resp["status"])
	assert.Equal(t, "09:00", resp["start_time"])
	assert.Equal(t, "17:30", resp["end_time"])
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	w := httptest.NewRecorder()
	userRouter(&MockUserService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/5", nil))

	AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}

func TestUserHandler_ListUsers(t *testing.T) {
	var gotLimit, gotOffset int
	users := &MockUserService{
		ListUsersFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			gotLimit, gotOffset = limit, offset
			return []*models.User{NewTestUser(1), NewTestUser(2)}, nil
		},
	}

	w := httptest.NewRecorder()
	userRouter(users).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?limit=2&offset=4", nil))

	var resp ListUsersResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, gotLimit)
	assert.Equal(t, 4, gotOffset)

	w = httptest.NewRecorder()
	userRouter(users).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?limit=500", nil))
	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestUserHandler_EditUser(t *testing.T) {
	var got services.UserProfileUpdate
	users := &MockUserService{
		EditUserFunc: func(ctx context.Context, id int64, update services.UserProfileUpdate) (*models.User, error) {
			got = update
			user := NewTestUser(id)
			user.City = *update.City
			return user, nil
		},
	}

	body := map[string]string{"city": "Paris", "birthday": "1991-01-02"}
	w := httptest.NewRecorder()
	userRouter(users).ServeHTTP(w, NewTestRequest(t, http.MethodPatch, "/users/5", body))

	var resp UserResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "Paris", resp.City)
	assert.Nil(t, got.Name)
	require.NotNil(t, got.Birthday)
	assert.Equal(t, 1991, got.Birthday.Year())
}

func TestUserHandler_UpdateWorkingHours(t *testing.T) {
	var gotStart, gotEnd models.TimeOfDay
	users := &MockUserService{
		UpdateWorkingHoursFunc: func(ctx context.Context, userID int64, start, end models.TimeOfDay) error {
			assert.Equal(t, int64(5), userID, "the caller's hours are set, not the id in the body")
			gotStart, gotEnd = start, end
			return nil
		},
	}

	body := map[string]interface{}{"user_id": 2, "start_time": "08:00", "end_time": "16:15"}
	w := httptest.NewRecorder()
	userRouter(users).ServeHTTP(w, WithAuthContext(NewTestRequest(t, http.MethodPatch, "/users/working-hours", body), 5))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, models.NewTimeOfDay(8, 0), gotStart)
	assert.Equal(t, models.NewTimeOfDay(16, 15), gotEnd)
}

func TestUserHandler_UpdateWorkingHours_Errors(t *testing.T) {
	t.Run("unparseable time", func(t *testing.T) {
		body := map[string]interface{}{"start_time": "8am", "end_time": "16:00"}
		w := httptest.NewRecorder()
		userRouter(&MockUserService{}).ServeHTTP(w, WithAuthContext(NewTestRequest(t, http.MethodPatch, "/users/working-hours", body), 5))

		AssertErrorResponse(t, w, http.StatusBadRequest, "invalid_time_format")
	})

	t.Run("missing end", func(t *testing.T) {
		body := map[string]interface{}{"start_time": "08:00"}
		w := httptest.NewRecorder()
		userRouter(&MockUserService{}).ServeHTTP(w, WithAuthContext(NewTestRequest(t, http.MethodPatch, "/users/working-hours", body), 5))

		AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
	})

	t.Run("span too short", func(t *testing.T) {
		users := &MockUserService{
			UpdateWorkingHoursFunc: func(ctx context.Context, userID int64, start, end models.TimeOfDay) error {
				return fmt.Errorf("%w: working hours must span at least 30m0s", models.ErrConflict)
			},
		}
		body := map[string]interface{}{"start_time": "08:00", "end_time": "08:10"}
		w := httptest.NewRecorder()
		userRouter(users).ServeHTTP(w, WithAuthContext(NewTestRequest(t, http.MethodPatch, "/users/working-hours", body), 5))

		AssertErrorResponse(t, w, http.StatusConflict, "conflict")
	})

	t.Run("no authenticated caller", func(t *testing.T) {
		users := &MockUserService{
			UpdateWorkingHoursFunc: func(ctx context.Context, userID int64, start, end models.TimeOfDay) error {
				t.Fatal("service must not be called without a caller")
				return nil
			},
		}
		body := map[string]interface{}{"user_id": 5, "start_time": "08:00", "end_time": "16:00"}
		w := httptest.NewRecorder()
		userRouter(users).ServeHTTP(w, NewTestRequest(t, http.MethodPatch, "/users/working-hours", body))

		AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	w := httptest.NewRecorder()
	userRouter(&MockUserService{}).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "true", w.Body.String())
}

func TestUserHandler_DeleteUser_StorageDown(t *testing.T) {
	users := &MockUserService{
		DeleteUserFunc: func(ctx context.Context, id int64) error {
			return fmt.Errorf("%w: blob store", models.ErrServiceUnavailable)
		},
	}

	w := httptest.NewRecorder()
	userRouter(users).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/5", nil))

	AssertErrorResponse(t, w, http.StatusServiceUnavailable, "service_unavailable")
}

func TestUserHandler_PhoneExists(t *testing.T) {
	users := &MockUserService{
		PhoneExistsFunc: func(ctx context.Context, phone string) (bool, error) {
			return phone == "+15551234567", nil
		},
	}

	w := httptest.NewRecorder()
	userRouter(users).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/exists/by-phone?phone=%2B15551234567", nil))

	var resp ExistsResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.True(t, resp.Exists)

	w = httptest.NewRecorder()
	userRouter(users).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/exists/by-phone", nil))
	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

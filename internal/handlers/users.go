package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BradenHooton/userservice/internal/auth"
	"github.com/BradenHooton/userservice/internal/models"
	"github.com/BradenHooton/userservice/internal/services"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

// UserService defines the interface for user business logic
type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	EditUser(ctx context.Context, id int64, update services.UserProfileUpdate) (*models.User, error)
	UpdateWorkingHours(ctx context.Context, userID int64, start, end models.TimeOfDay) error
	DeleteUser(ctx context.Context, id int64) error
	PhoneExists(ctx context.Context, phone string) (bool, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// Request/Response DTOs

// CreateUserRequest represents the request body for creating a user. The id comes
// from the identity provider.
type CreateUserRequest struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,min=2,max=30"`
	Surname  string `json:"surname" validate:"required,min=2,max=30"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"required,phone"`
	Address  string `json:"address" validate:"required,min=2,max=30"`
	City     string `json:"city" validate:"required,max=100"`
	ZipCode  string `json:"zip_code" validate:"required,max=20"`
	Country  string `json:"country" validate:"required,max=100"`
	Birthday string `json:"birthday" validate:"required,datetime=2006-01-02"`
}

// EditUserRequest represents the request body for editing a profile; absent fields are kept
type EditUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=30"`
	Surname  *string `json:"surname" validate:"omitempty,min=2,max=30"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Address  *string `json:"address" validate:"omitempty,min=2,max=30"`
	City     *string `json:"city" validate:"omitempty,max=100"`
	ZipCode  *string `json:"zip_code" validate:"omitempty,max=20"`
	Country  *string `json:"country" validate:"omitempty,max=100"`
	Birthday *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

// WorkingHoursRequest sets the caller's daily working span
type WorkingHoursRequest struct {
	StartTime *models.TimeOfDay `json:"start_time" validate:"required"`
	EndTime   *models.TimeOfDay `json:"end_time" validate:"required"`
}

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Surname           string            `json:"surname"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Address           string            `json:"address"`
	City              string            `json:"city"`
	ZipCode           string            `json:"zip_code"`
	Country           string            `json:"country"`
	Birthday          string            `json:"birthday"`
	Status            models.Status     `json:"status"`
	Verified          bool              `json:"verified"`
	StartTime         *models.TimeOfDay `json:"start_time,omitempty"`
	EndTime           *models.TimeOfDay `json:"end_time,omitempty"`
	HasProfilePicture bool              `json:"has_profile_picture"`
	CreatedAt         string            `json:"created_at"`
}

// ListUsersResponse represents a list of users
type ListUsersResponse struct {
	Users []*UserResponse `json:"users"`
	Total int             `json:"total"`
}

// ExistsResponse answers an existence query
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// userModelToResponse converts a user model to a response DTO
func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:                user.ID,
		Name:              user.Name,
		Surname:           user.Surname,
		Email:             user.Email,
		Phone:             user.Phone,
		Address:           user.Address,
		City:              user.City,
		ZipCode:           user.ZipCode,
		Country:           user.Country,
		Birthday:          user.Birthday.Format(dateLayout),
		Status:            user.Status,
		Verified:          user.Verified,
		StartTime:         user.StartTime,
		EndTime:           user.EndTime,
		HasProfilePicture: user.HasProfilePicture(),
		CreatedAt:         user.CreatedAt.Format(time.RFC3339),
	}
}

// parseBirthday accepts a calendar date strictly in the past
func parseBirthday(raw string, now time.Time) (time.Time, error) {
	birthday, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: birthday must match %s", models.ErrInvalidArgument, dateLayout)
	}
	if !birthday.Before(now) {
		return time.Time{}, fmt.Errorf("%w: birthday must be in the past", models.ErrInvalidArgument)
	}
	return birthday, nil
}

// RegisterRoutes registers user routes on a router already scoped to /users
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateUser)                       // POST /users
	r.Get("/", h.ListUsers)                         // GET /users
	r.Get("/exists/by-phone", h.PhoneExists)        // GET /users/exists/by-phone?phone=
	r.Patch("/working-hours", h.UpdateWorkingHours) // PATCH /users/working-hours
	r.Get("/{id}", h.GetUser)                       // GET /users/{id}
	r.Patch("/{id}", h.EditUser)                    // PATCH /users/{id}
	r.Delete("/{id}", h.DeleteUser)                 // DELETE /users/{id}
}

// GetUser retrieves a user by ID
//
// @Summary Get user by ID
// @Param id path int true "User ID"
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// ListUsers retrieves a list of users with pagination
//
// @Summary List users
// @Param limit query int false "Limit (default 10)" default(10)
// @Param offset query int false "Offset (default 0)" default(0)
// @Produce json
// @Success 200 {object} ListUsersResponse
// @Failure 400 {object} ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := pkghttp.QueryInt(r, "limit", 10)
	if err != nil || limit < 1 || limit > 100 {
		pkghttp.WriteBadRequest(w, "limit must be between 1 and 100")
		return
	}
	offset, err := pkghttp.QueryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		pkghttp.WriteBadRequest(w, "offset must be a non-negative integer")
		return
	}

	users, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := &ListUsersResponse{
		Users: make([]*UserResponse, len(users)),
		Total: len(users),
	}
	for i, user := range users {
		response.Users[i] = userModelToResponse(user)
	}
	pkghttp.WriteJSON(w, http.StatusOK, response)
}

// CreateUser creates a new user
//
// @Summary Create a new user
// @Accept json
// @Param request body CreateUserRequest true "Create user request"
// @Produce json
// @Success 201 {object} UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	birthday, err := parseBirthday(req.Birthday, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	user := &models.User{
		ID:       req.ID,
		Name:     strings.TrimSpace(req.Name),
		Surname:  strings.TrimSpace(req.Surname),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
		ZipCode:  req.ZipCode,
		Country:  req.Country,
		Birthday: birthday,
	}

	created, err := h.service.CreateUser(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, userModelToResponse(created))
}

// EditUser updates the supplied profile fields
//
// @Summary Edit a user profile
// @Accept json
// @Param id path int true "User ID"
// @Param request body EditUserRequest true "Fields to change"
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) EditUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	var req EditUserRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	update := services.UserProfileUpdate{
		Name:    req.Name,
		Surname: req.Surname,
		Address: req.Address,
		Phone:   req.Phone,
		Country: req.Country,
		City:    req.City,
		ZipCode: req.ZipCode,
	}
	if req.Birthday != nil {
		birthday, err := parseBirthday(*req.Birthday, time.Now())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		update.Birthday = &birthday
	}

	user, err := h.service.EditUser(r.Context(), id, update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// UpdateWorkingHours sets the authenticated user's daily working span
//
// @Summary Update working hours
// @Accept json
// @Param request body WorkingHoursRequest true "Working hours"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/working-hours [patch]
func (h *UserHandler) UpdateWorkingHours(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req WorkingHoursRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.service.UpdateWorkingHours(r.Context(), userID, *req.StartTime, *req.EndTime); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser deletes a user, their picture and all relations
//
// @Summary Delete user
// @Param id path int true "User ID"
// @Produce json
// @Success 200 {boolean} true
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, true)
}

// PhoneExists reports whether a profile already uses the phone number
//
// @Summary Check phone number
// @Param phone query string true "Phone number"
// @Produce json
// @Success 200 {object} ExistsResponse
// @Router /users/exists/by-phone [get]
func (h *UserHandler) PhoneExists(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if phone == "" {
		pkghttp.WriteBadRequest(w, "phone query parameter is required")
		return
	}

	exists, err := h.service.PhoneExists(r.Context(), phone)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, ExistsResponse{Exists: exists})
}

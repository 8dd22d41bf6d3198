package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/BradenHooton/userservice/internal/auth"
	"github.com/BradenHooton/userservice/internal/models"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	"github.com/go-chi/chi/v5"
)

// FavoriteService defines the favorite operations exposed over HTTP
type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, favoriteUserID int64) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, favoriteUserID int64) error
	GetFavoriteUsers(ctx context.Context, userID int64, page, pageSize int) ([]int64, error)
}

// FavoriteHandler handles favorite-related HTTP requests
type FavoriteHandler struct {
	service FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(service FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// FavoriteResponse represents a created favorite
type FavoriteResponse struct {
	ID        models.FavoriteID `json:"id"`
	CreatedAt string            `json:"created_at"`
}

func favoriteToResponse(f *models.Favorite) *FavoriteResponse {
	return &FavoriteResponse{
		ID:        f.ID,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
	}
}

// RegisterRoutes registers favorite routes. writeLimit throttles mutations per caller.
func (h *FavoriteHandler) RegisterRoutes(router chi.Router, writeLimit func(http.Handler) http.Handler) {
	router.Route("/favorites", func(r chi.Router) {
		r.Get("/", h.GetFavoriteUsers)
		r.With(writeLimit).Post("/{favoriteUserId}", h.AddFavorite)
		r.With(writeLimit).Delete("/{favoriteUserId}", h.DeleteFavorite)
	})
}

// AddFavorite marks the target as a favorite of the caller
//
// @Summary Add a favorite
// @Param favoriteUserId path int true "User to favorite"
// @Produce json
// @Success 201 {object} FavoriteResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /favorites/{favoriteUserId} [post]
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	favoriteUserID, err := pathID(r, "favoriteUserId")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	favorite, err := h.service.AddFavorite(r.Context(), userID, favoriteUserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, favoriteToResponse(favorite))
}

// DeleteFavorite removes the target from the caller's favorites
//
// @Summary Remove a favorite
// @Param favoriteUserId path int true "Favorite user"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /favorites/{favoriteUserId} [delete]
func (h *FavoriteHandler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	favoriteUserID, err := pathID(r, "favoriteUserId")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.DeleteFavorite(r.Context(), userID, favoriteUserID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetFavoriteUsers lists the caller's favorites
//
// @Summary List favorites
// @Param page query int false "Zero-based page" default(0)
// @Param pageSize query int false "Page size" default(20)
// @Produce json
// @Success 200 {object} UserIDsResponse
// @Router /favorites [get]
func (h *FavoriteHandler) GetFavoriteUsers(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	page, pageSize, err := pageParams(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ids, err := h.service.GetFavoriteUsers(r.Context(), userID, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, newUserIDsResponse(ids, page, pageSize))
}

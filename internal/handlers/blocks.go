package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/userservice/internal/auth"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	"github.com/go-chi/chi/v5"
)

// BlockService defines the block operations exposed over HTTP
type BlockService interface {
	BlockUser(ctx context.Context, userID, blockedUserID int64) error
	UnblockUser(ctx context.Context, userID, blockedUserID int64) error
	GetBlockedUsersByUserID(ctx context.Context, userID int64, page, pageSize int) ([]int64, error)
}

// BlockHandler handles block-related HTTP requests
type BlockHandler struct {
	service BlockService
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(service BlockService) *BlockHandler {
	return &BlockHandler{service: service}
}

// UserIDsResponse is a page of user ids
type UserIDsResponse struct {
	UserIDs  []int64 `json:"user_ids"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

func newUserIDsResponse(ids []int64, page, pageSize int) UserIDsResponse {
	if ids == nil {
		ids = []int64{}
	}
	return UserIDsResponse{UserIDs: ids, Page: page, PageSize: pageSize}
}

// RegisterRoutes registers block routes. writeLimit throttles mutations per caller.
func (h *BlockHandler) RegisterRoutes(router chi.Router, writeLimit func(http.Handler) http.Handler) {
	// one param name per node; chi dispatches by method
	router.Route("/blocks", func(r chi.Router) {
		r.Get("/{userId}", h.GetBlockedUsers)
		r.With(writeLimit).Post("/{userId}", h.BlockUser)
		r.With(writeLimit).Delete("/{userId}", h.UnblockUser)
	})
}

// BlockUser blocks the target on behalf of the caller, dropping the caller's favorite of them
//
// @Summary Block a user
// @Param userId path int true "User to block"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /blocks/{userId} [post]
func (h *BlockHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	blockedUserID, err := pathID(r, "userId")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.BlockUser(r.Context(), userID, blockedUserID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnblockUser removes the caller's block of the target
//
// @Summary Unblock a user
// @Param userId path int true "Blocked user"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /blocks/{userId} [delete]
func (h *BlockHandler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	blockedUserID, err := pathID(r, "userId")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.UnblockUser(r.Context(), userID, blockedUserID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBlockedUsers lists the ids blocked by a user
//
// @Summary List blocked users
// @Param userId path int true "Blocking user"
// @Param page query int false "Zero-based page" default(0)
// @Param pageSize query int false "Page size" default(20)
// @Produce json
// @Success 200 {object} UserIDsResponse
// @Router /blocks/{userId} [get]
func (h *BlockHandler) GetBlockedUsers(w http.ResponseWriter, r *http.Request) {
	blockingUserID, err := pathID(r, "userId")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	page, pageSize, err := pageParams(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ids, err := h.service.GetBlockedUsersByUserID(r.Context(), blockingUserID, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, newUserIDsResponse(ids, page, pageSize))
}

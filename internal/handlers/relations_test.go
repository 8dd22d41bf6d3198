package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/userservice/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relationRouter(blocks BlockService, favorites FavoriteService) chi.Router {
	r := chi.NewRouter()
	NewBlockHandler(blocks).RegisterRoutes(r, noLimit)
	NewFavoriteHandler(favorites).RegisterRoutes(r, noLimit)
	return r
}

func TestBlockHandler_BlockUser(t *testing.T) {
	var gotUser, gotBlocked int64
	blocks := &MockBlockService{
		BlockUserFunc: func(ctx context.Context, userID, blockedUserID int64) error {
			gotUser, gotBlocked = userID, blockedUserID
			return nil
		},
	}
	router := relationRouter(blocks, &MockFavoriteService{})

	req := WithAuthContext(httptest.NewRequest(http.MethodPost, "/blocks/7", nil), 3)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(3), gotUser)
	assert.Equal(t, int64(7), gotBlocked)
}

func TestBlockHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"self block", fmt.Errorf("%w: cannot block yourself", models.ErrInvalidArgument), http.StatusBadRequest, "bad_request"},
		{"unknown user", fmt.Errorf("%w: user with id 7", models.ErrNotFound), http.StatusNotFound, "not_found"},
		{"already blocked", fmt.Errorf("%w: already blocked", models.ErrConflict), http.StatusConflict, "conflict"},
		{"internal", models.ErrInternalServer, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := &MockBlockService{
				BlockUserFunc: func(ctx context.Context, userID, blockedUserID int64) error { return tt.err },
			}
			router := relationRouter(blocks, &MockFavoriteService{})

			req := WithAuthContext(httptest.NewRequest(http.MethodPost, "/blocks/7", nil), 3)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			AssertErrorResponse(t, w, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestBlockHandler_MissingPrincipal(t *testing.T) {
	router := relationRouter(&MockBlockService{}, &MockFavoriteService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/blocks/7", nil))

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestBlockHandler_InvalidPathID(t *testing.T) {
	router := relationRouter(&MockBlockService{}, &MockFavoriteService{})

	req := WithAuthContext(httptest.NewRequest(http.MethodDelete, "/blocks/abc", nil), 3)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestBlockHandler_UnblockUser(t *testing.T) {
	blocks := &MockBlockService{
		UnblockUserFunc: func(ctx context.Context, userID, blockedUserID int64) error {
			return fmt.Errorf("%w: block relationship does not exist", models.ErrInvalidArgument)
		},
	}
	router := relationRouter(blocks, &MockFavoriteService{})

	req := WithAuthContext(httptest.NewRequest(http.MethodDelete, "/blocks/7", nil), 3)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestBlockHandler_GetBlockedUsers(t *testing.T) {
	var gotPage, gotSize int
	blocks := &MockBlockService{
		ListFunc: func(ctx context.Context, userID int64, page, pageSize int) ([]int64, error) {
			gotPage, gotSize = page, pageSize
			assert.Equal(t, int64(3), userID)
			return []int64{7, 9}, nil
		},
	}
	router := relationRouter(blocks, &MockFavoriteService{})

	req := WithAuthContext(httptest.NewRequest(http.MethodGet, "/blocks/3?page=1&pageSize=2", nil), 3)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp UserIDsResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, []int64{7, 9}, resp.UserIDs)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 2, gotSize)
}

func TestBlockHandler_GetBlockedUsers_DefaultsAndEmpty(t *testing.T) {
	var gotPage, gotSize int
	blocks := &MockBlockService{
		ListFunc: func(ctx context.Context, userID int64, page, pageSize int) ([]int64, error) {
			gotPage, gotSize = page, pageSize
			return nil, nil
		},
	}
	router := relationRouter(blocks, &MockFavoriteService{})

	req := WithAuthContext(httptest.NewRequest(http.MethodGet, "/blocks/3", nil), 3)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_ids":[],"page":0,"page_size":20}`, w.Body.String())
	assert.Equal(t, 0, gotPage)
	assert.Equal(t, defaultPageSize, gotSize)
}

func TestBlockHandler_GetBlockedUsers_BadPaging(t *testing.T) {
	router := relationRouter(&MockBlockService{}, &MockFavoriteService{})

	req := WithAuthContext(httptest.NewRequest(http.MethodGet, "/blocks/3?page=x", nil), 3)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestFavoriteHandler_AddFavorite(t *testing.T) {
	router := relationRouter(&MockBlockService{}, &MockFavoriteService{})

	req := WithAuthContext(httptest.NewRequest(http.MethodPost, "/favorites/8", nil), 3)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp FavoriteResponse
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, models.FavoriteID{UserID: 3, FavoriteUserID: 8}, resp.ID)
	assert.NotEmpty(t, resp.CreatedAt)
}

func TestFavoriteHandler_AddFavorite_Blocked(t *testing.T) {
	favorites := &MockFavoriteService{
		AddFavoriteFunc: func(ctx context.Context, userID, favoriteUserID int64) (*models.Favorite, error) {
			return nil, fmt.Errorf("%w: blocked user cannot be favorited", models.ErrInvalidArgument)
		},
	}
	router := relationRouter(&MockBlockService{}, favorites)

	req := WithAuthContext(httptest.NewRequest(http.MethodPost, "/favorites/8", nil), 3)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestFavoriteHandler_DeleteAndList(t *testing.T) {
	deleted := false
	favorites := &MockFavoriteService{
		DeleteFavoriteFunc: func(ctx context.Context, userID, favoriteUserID int64) error {
			deleted = userID == 3 && favoriteUserID == 8
			return nil
		},
		ListFunc: func(ctx context.Context, userID int64, page, pageSize int) ([]int64, error) {
			return []int64{8}, nil
		},
	}
	router := relationRouter(&MockBlockService{}, favorites)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, WithAuthContext(httptest.NewRequest(http.MethodDelete, "/favorites/8", nil), 3))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, deleted)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, WithAuthContext(httptest.NewRequest(http.MethodGet, "/favorites", nil), 3))
	var resp UserIDsResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.Len(t, resp.UserIDs, 1)
	assert.Equal(t, int64(8), resp.UserIDs[0])
}

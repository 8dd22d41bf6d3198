package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/BradenHooton/userservice/internal/models"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	"github.com/go-chi/chi/v5"
)

// PictureService defines the profile picture operations exposed over HTTP
type PictureService interface {
	AddProfilePicture(ctx context.Context, userID int64, data []byte, filename string) (*models.User, error)
	DeleteProfilePicture(ctx context.Context, userID int64) (bool, error)
	GetProfilePicture(ctx context.Context, userID int64) (*models.Image, error)
}

// PictureHandler handles profile picture uploads and downloads
type PictureHandler struct {
	service        PictureService
	maxUploadBytes int64
}

// NewPictureHandler creates a PictureHandler that rejects uploads above maxUploadBytes
func NewPictureHandler(service PictureService, maxUploadBytes int64) *PictureHandler {
	return &PictureHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes registers picture routes on a router already scoped to /users
func (h *PictureHandler) RegisterRoutes(r chi.Router) {
	r.Patch("/{id}/profile-picture", h.AddProfilePicture)
	r.Delete("/{id}/profile-picture", h.DeleteProfilePicture)
	r.Get("/{id}/profile-picture", h.GetProfilePicture)
}

// AddProfilePicture stores the multipart "file" part as the user's picture
//
// @Summary Upload profile picture
// @Accept multipart/form-data
// @Param id path int true "User ID"
// @Param file formData file true "Picture (jpg, jpeg, png or gif)"
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /users/{id}/profile-picture [patch]
func (h *PictureHandler) AddProfilePicture(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	data, filename, err := h.readUpload(w, r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	user, err := h.service.AddProfilePicture(r.Context(), id, data, filename)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

func (h *PictureHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	// multipart framing needs some headroom over the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<16)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", fmt.Errorf("%w: file exceeds %d bytes", models.ErrInvalidPicture, h.maxUploadBytes)
		}
		return nil, "", fmt.Errorf("%w: multipart field \"file\" is required", models.ErrInvalidPicture)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: could not read upload", models.ErrInvalidPicture)
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, "", fmt.Errorf("%w: file exceeds %d bytes", models.ErrInvalidPicture, h.maxUploadBytes)
	}
	return data, header.Filename, nil
}

// DeleteProfilePicture removes the user's picture; the body is false when there was none
//
// @Summary Delete profile picture
// @Param id path int true "User ID"
// @Produce json
// @Success 200 {boolean} true
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /users/{id}/profile-picture [delete]
func (h *PictureHandler) DeleteProfilePicture(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	deleted, err := h.service.DeleteProfilePicture(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, deleted)
}

// GetProfilePicture streams the stored picture bytes
//
// @Summary Download profile picture
// @Param id path int true "User ID"
// @Produce image/png,image/jpeg,application/octet-stream
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/profile-picture [get]
func (h *PictureHandler) GetProfilePicture(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	image, err := h.service.GetProfilePicture(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", image.MediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(image.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image.Data)
}

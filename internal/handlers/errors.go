package handlers

import (
	"errors"
	"net/http"

	"github.com/BradenHooton/userservice/internal/models"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	"github.com/go-chi/chi/v5"
)

// writeServiceError maps a service error onto the API error contract.
// Services already hide unexpected failures behind ErrInternalServer.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidTimeFormat):
		pkghttp.WriteError(w, http.StatusBadRequest, "invalid_time_format", err.Error())
	case errors.Is(err, models.ErrInvalidPicture):
		pkghttp.WriteError(w, http.StatusBadRequest, "invalid_picture", err.Error())
	case errors.Is(err, models.ErrInvalidArgument), errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, err.Error())
	case errors.Is(err, models.ErrUserUnavailable):
		pkghttp.WriteError(w, http.StatusConflict, "user_unavailable", err.Error())
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, err.Error())
	case errors.Is(err, models.ErrServiceUnavailable):
		pkghttp.WriteServiceUnavailable(w, err.Error())
	default:
		pkghttp.WriteInternalError(w, "internal server error")
	}
}

// pathID parses a positive id route parameter
func pathID(r *http.Request, name string) (int64, error) {
	return pkghttp.ParseID(chi.URLParam(r, name))
}

package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Request shape errors
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrInvalidPicture    = errors.New("invalid profile picture")

	// Availability errors
	ErrUserUnavailable    = errors.New("user is unavailable")
	ErrServiceUnavailable = errors.New("service unavailable")
)

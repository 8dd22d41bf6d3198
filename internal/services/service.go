package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/userservice/internal/models"
)

// Transactor runs fn inside a database transaction carried by ctx
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserLookup answers whether a user id is known
type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

var domainErrors = []error{
	models.ErrNotFound,
	models.ErrConflict,
	models.ErrBadRequest,
	models.ErrInvalidArgument,
	models.ErrInvalidTimeFormat,
	models.ErrInvalidPicture,
	models.ErrUserUnavailable,
	models.ErrServiceUnavailable,
	models.ErrInternalServer,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// failure passes domain errors through and hides everything else behind ErrInternalServer
func failure(logger *slog.Logger, msg string, err error, attrs ...any) error {
	if isDomainError(err) {
		return err
	}
	logger.Error(msg, append(attrs, slog.Any("error", err))...)
	return models.ErrInternalServer
}

// validatePair rejects unset or equal ids for a directed relation
func validatePair(userID, otherID int64) error {
	if !models.ValidPair(userID, otherID) {
		return fmt.Errorf("%w: user ids must be set and different", models.ErrInvalidArgument)
	}
	return nil
}

// requireUsers checks each id in order and stops at the first unknown one
func requireUsers(ctx context.Context, users UserLookup, ids ...int64) error {
	for _, id := range ids {
		exists, err := users.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: user with id %d", models.ErrNotFound, id)
		}
	}
	return nil
}

// pageBounds converts a zero-based page index and size into limit and offset
func pageBounds(page, pageSize int) (limit, offset int, err error) {
	if page < 0 || pageSize < 1 {
		return 0, 0, fmt.Errorf("%w: page must be >= 0 and pageSize >= 1", models.ErrInvalidArgument)
	}
	return pageSize, page * pageSize, nil
}

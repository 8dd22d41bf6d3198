package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BradenHooton/userservice/internal/models"
	"github.com/BradenHooton/userservice/pkg/logger"
)

// BlobStore holds picture bytes by key
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// PictureCache caches picture bytes by user id. Failures never fail a request.
type PictureCache interface {
	Get(ctx context.Context, userID int64) ([]byte, bool, error)
	Set(ctx context.Context, userID int64, data []byte) error
	Invalidate(ctx context.Context, userID int64) error
}

// PictureUserRepository is the user data the picture manager reads and writes
type PictureUserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error)
	SetProfilePicturePath(ctx context.Context, id int64, path string) error
}

var allowedPictureExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

const picturePrefix = "pictureUserId_"

// PictureKey is the storage key for a user's picture. Replacing a picture with the same
// extension overwrites the object.
func PictureKey(userID int64, ext string) string {
	return picturePrefix + strconv.FormatInt(userID, 10) + "." + ext
}

// MediaTypeForKey maps a stored key's extension to its media type
func MediaTypeForKey(key string) string {
	switch pictureExtension(key) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

func pictureExtension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// PictureService manages profile pictures in the blob store
type PictureService struct {
	users  PictureUserRepository
	blobs  BlobStore
	cache  PictureCache
	tx     Transactor
	audit  *logger.AuditLogger
	logger *slog.Logger
}

// NewPictureService creates a PictureService; cache may be nil
func NewPictureService(users PictureUserRepository, blobs BlobStore, cache PictureCache, tx Transactor, audit *logger.AuditLogger, logger *slog.Logger) *PictureService {
	return &PictureService{
		users:  users,
		blobs:  blobs,
		cache:  cache,
		tx:     tx,
		audit:  audit,
		logger: logger,
	}
}

// AddProfilePicture uploads data and points the user at the new key
func (s *PictureService) AddProfilePicture(ctx context.Context, userID int64, data []byte, filename string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, failure(s.logger, "failed to get user", err, slog.Int64("user_id", userID))
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", models.ErrInvalidPicture)
	}
	ext := pictureExtension(filename)
	if !allowedPictureExtensions[ext] {
		return nil, fmt.Errorf("%w: extension %q is not allowed", models.ErrInvalidPicture, ext)
	}

	key := PictureKey(userID, ext)
	if err := s.blobs.Put(ctx, key, data, MediaTypeForKey(key)); err != nil {
		return nil, failure(s.logger, "failed to upload profile picture", err, slog.Int64("user_id", userID))
	}

	if err := s.users.SetProfilePicturePath(ctx, userID, key); err != nil {
		return nil, failure(s.logger, "failed to store profile picture path", err, slog.Int64("user_id", userID))
	}
	previous := user.ProfilePicturePath
	user.ProfilePicturePath = key

	if previous != "" && previous != key {
		if err := s.blobs.Delete(ctx, previous); err != nil && !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("failed to remove replaced profile picture",
				slog.Int64("user_id", userID), slog.String("key", previous), slog.Any("error", err))
		}
	}

	s.invalidate(ctx, userID)
	s.audit.LogAccountChange(ctx, logger.AuditEvent{
		EventType: logger.EventPictureReplaced,
		UserID:    userID,
		Success:   true,
		Metadata:  map[string]string{"key": key},
	})
	return user, nil
}

// DeleteProfilePicture clears the path and removes the object. The path change only
// commits when the blob delete succeeds. Returns false when there was nothing to delete.
func (s *PictureService) DeleteProfilePicture(ctx context.Context, userID int64) (bool, error) {
	deleted := false

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if !user.HasProfilePicture() {
			return nil
		}

		if err := s.users.SetProfilePicturePath(ctx, userID, ""); err != nil {
			return err
		}
		if err := s.blobs.Delete(ctx, user.ProfilePicturePath); err != nil && !errors.Is(err, models.ErrNotFound) {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, failure(s.logger, "failed to delete profile picture", err, slog.Int64("user_id", userID))
	}

	if deleted {
		s.invalidate(ctx, userID)
		s.audit.LogAccountChange(ctx, logger.AuditEvent{
			EventType: logger.EventPictureRemoved,
			UserID:    userID,
			Success:   true,
		})
	}
	return deleted, nil
}

// GetProfilePicture returns the picture bytes, reading through the cache when configured
func (s *PictureService) GetProfilePicture(ctx context.Context, userID int64) (*models.Image, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, failure(s.logger, "failed to get user", err, slog.Int64("user_id", userID))
	}
	if !user.HasProfilePicture() {
		return nil, fmt.Errorf("%w: user %d has no profile picture", models.ErrNotFound, userID)
	}
	mediaType := MediaTypeForKey(user.ProfilePicturePath)

	if s.cache != nil {
		data, found, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("picture cache read failed", slog.Int64("user_id", userID), slog.Any("error", err))
		} else if found {
			return &models.Image{Data: data, MediaType: mediaType}, nil
		}
	}

	data, err := s.blobs.Get(ctx, user.ProfilePicturePath)
	if err != nil {
		return nil, failure(s.logger, "failed to read profile picture", err, slog.Int64("user_id", userID))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, data); err != nil {
			s.logger.Warn("picture cache write failed", slog.Int64("user_id", userID), slog.Any("error", err))
		}
	}
	return &models.Image{Data: data, MediaType: mediaType}, nil
}

func (s *PictureService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("picture cache invalidation failed", slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

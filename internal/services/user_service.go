package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/userservice/internal/models"
	"github.com/BradenHooton/userservice/pkg/logger"
)

// minWorkingDay is the shortest working-hours span accepted
const minWorkingDay = 30 * time.Minute

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	UpdateWorkingHours(ctx context.Context, id int64, start, end models.TimeOfDay) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// PictureRemover deletes a user's picture before the account goes away
type PictureRemover interface {
	DeleteProfilePicture(ctx context.Context, userID int64) (bool, error)
}

// UserProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type UserProfileUpdate struct {
	Name     *string
	Surname  *string
	Birthday *time.Time
	Address  *string
	Phone    *string
	Country  *string
	City     *string
	ZipCode  *string
}

// UserService handles user business logic
type UserService struct {
	repo     UserRepository
	pictures PictureRemover
	audit    *logger.AuditLogger
	logger   *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, pictures PictureRemover, audit *logger.AuditLogger, logger *slog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		pictures: pictures,
		audit:    audit,
		logger:   logger,
	}
}

// Exists satisfies UserLookup for the registries
func (s *UserService) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, failure(s.logger, "failed to check user", err, slog.Int64("user_id", id))
	}
	return exists, nil
}

func (s *UserService) PhoneExists(ctx context.Context, phone string) (bool, error) {
	exists, err := s.repo.ExistsByPhone(ctx, phone)
	if err != nil {
		return false, failure(s.logger, "failed to check phone", err)
	}
	return exists, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.Int64("user_id", id))
			return nil, fmt.Errorf("%w: user with id %d", models.ErrNotFound, id)
		}
		return nil, failure(s.logger, "failed to get user", err, slog.Int64("user_id", id))
	}
	return user, nil
}

// ListUsers retrieves a list of users with pagination
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, failure(s.logger, "failed to list users", err,
			slog.Int("limit", limit), slog.Int("offset", offset))
	}
	return users, nil
}

// CreateUser stores a profile for an id issued by the identity provider. New accounts
// start ACTIVE and unverified regardless of input.
func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", models.ErrInvalidArgument)
	}

	exists, err := s.repo.Exists(ctx, user.ID)
	if err != nil {
		return nil, failure(s.logger, "failed to check user", err, slog.Int64("user_id", user.ID))
	}
	if exists {
		return nil, fmt.Errorf("%w: user with id %d", models.ErrConflict, user.ID)
	}

	user.Status = models.StatusActive
	user.Verified = false
	user.ProfilePicturePath = ""

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, failure(s.logger, "failed to create user", err,
			slog.Int64("user_id", user.ID), slog.String("email", logger.MaskedEmail(user.Email)))
	}

	s.audit.LogAccountChange(ctx, logger.AuditEvent{
		EventType: logger.EventAccountCreated,
		UserID:    created.ID,
		Success:   true,
	})
	return created, nil
}

// EditUser applies the non-nil fields of update
func (s *UserService) EditUser(ctx context.Context, id int64, update UserProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Surname != nil {
		user.Surname = *update.Surname
	}
	if update.Birthday != nil {
		user.Birthday = *update.Birthday
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Country != nil {
		user.Country = *update.Country
	}
	if update.City != nil {
		user.City = *update.City
	}
	if update.ZipCode != nil {
		user.ZipCode = *update.ZipCode
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, failure(s.logger, "failed to update user", err, slog.Int64("user_id", id))
	}
	return updated, nil
}

// UpdateWorkingHours sets the daily working span; it must be at least half an hour
func (s *UserService) UpdateWorkingHours(ctx context.Context, userID int64, start, end models.TimeOfDay) error {
	if start.After(end) {
		return fmt.Errorf("%w: start time is after end time", models.ErrConflict)
	}
	if end.Duration()-start.Duration() < minWorkingDay {
		return fmt.Errorf("%w: working hours must span at least %s", models.ErrConflict, minWorkingDay)
	}

	if err := s.repo.UpdateWorkingHours(ctx, userID, start, end); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: user with id %d", models.ErrNotFound, userID)
		}
		return failure(s.logger, "failed to update working hours", err, slog.Int64("user_id", userID))
	}
	return nil
}

// DeleteUser removes the picture first, then the row. Relations go with it by cascade.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}

	if _, err := s.pictures.DeleteProfilePicture(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return failure(s.logger, "failed to delete user", err, slog.Int64("user_id", id))
	}

	s.audit.LogAccountChange(ctx, logger.AuditEvent{
		EventType: logger.EventAccountDeleted,
		UserID:    id,
		Success:   true,
	})
	return nil
}

// DeleteUserIfExists is the queue path: a missing user is logged, not an error
func (s *UserService) DeleteUserIfExists(ctx context.Context, id int64) (bool, error) {
	err := s.DeleteUser(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Info("user to delete not found", slog.Int64("user_id", id))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

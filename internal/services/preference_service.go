package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/userservice/internal/models"
)

// PreferencesRepository defines the interface for preferences data access
type PreferencesRepository interface {
	Exists(ctx context.Context, userID int64) (bool, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Preferences, error)
	Create(ctx context.Context, prefs *models.Preferences) error
	Update(ctx context.Context, prefs *models.Preferences) error
}

// PreferenceService stores a user's job search preferences
type PreferenceService struct {
	repo   PreferencesRepository
	users  UserLookup
	tx     Transactor
	logger *slog.Logger
}

func NewPreferenceService(repo PreferencesRepository, users UserLookup, tx Transactor, logger *slog.Logger) *PreferenceService {
	return &PreferenceService{
		repo:   repo,
		users:  users,
		tx:     tx,
		logger: logger,
	}
}

func validatePreferences(prefs *models.Preferences) error {
	if prefs.PreferredDistance < 0 {
		return fmt.Errorf("%w: preferred distance must not be negative", models.ErrInvalidArgument)
	}
	if prefs.PreferredExperience < 0 {
		return fmt.Errorf("%w: preferred experience must not be negative", models.ErrInvalidArgument)
	}
	return nil
}

// SetPreferences creates the preferences of prefs.UserID. They may only be set once.
func (s *PreferenceService) SetPreferences(ctx context.Context, prefs *models.Preferences) (*models.Preferences, error) {
	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}
	if err := requireUsers(ctx, s.users, prefs.UserID); err != nil {
		return nil, failure(s.logger, "failed to look up user", err, slog.Int64("user_id", prefs.UserID))
	}

	var saved *models.Preferences
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.Exists(ctx, prefs.UserID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: preferences for user %d are already set", models.ErrConflict, prefs.UserID)
		}
		if err := s.repo.Create(ctx, prefs); err != nil {
			return err
		}
		saved, err = s.repo.GetByUserID(ctx, prefs.UserID)
		return err
	})
	if err != nil {
		return nil, failure(s.logger, "failed to set preferences", err, slog.Int64("user_id", prefs.UserID))
	}
	return saved, nil
}

// UpdatePreferences replaces the scalar fields and the whole category set
func (s *PreferenceService) UpdatePreferences(ctx context.Context, prefs *models.Preferences) (*models.Preferences, error) {
	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}

	var saved *models.Preferences
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.Exists(ctx, prefs.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: preferences for user %d", models.ErrNotFound, prefs.UserID)
		}
		if err := s.repo.Update(ctx, prefs); err != nil {
			return err
		}
		saved, err = s.repo.GetByUserID(ctx, prefs.UserID)
		return err
	})
	if err != nil {
		return nil, failure(s.logger, "failed to update preferences", err, slog.Int64("user_id", prefs.UserID))
	}
	return saved, nil
}

func (s *PreferenceService) GetPreferences(ctx context.Context, userID int64) (*models.Preferences, error) {
	prefs, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, failure(s.logger, "failed to get preferences", err, slog.Int64("user_id", userID))
	}
	return prefs, nil
}

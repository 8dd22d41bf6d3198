package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/userservice/internal/models"
	"github.com/BradenHooton/userservice/pkg/logger"
)

// FavoriteRepository defines the interface for favorite data access
type FavoriteRepository interface {
	Exists(ctx context.Context, id models.FavoriteID) (bool, error)
	Create(ctx context.Context, id models.FavoriteID) (*models.Favorite, error)
	Delete(ctx context.Context, id models.FavoriteID) error
	ListFavoriteUserIDs(ctx context.Context, userID int64, limit, offset int) ([]int64, error)
}

// BlockChecker reports whether userID has blocked otherID
type BlockChecker interface {
	BlockExists(ctx context.Context, userID, otherID int64) (bool, error)
}

// FavoriteService manages directed favorite relations, gated by blocks
type FavoriteService struct {
	repo   FavoriteRepository
	users  UserLookup
	blocks BlockChecker
	audit  *logger.AuditLogger
	logger *slog.Logger
}

func NewFavoriteService(repo FavoriteRepository, users UserLookup, blocks BlockChecker, audit *logger.AuditLogger, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		repo:   repo,
		users:  users,
		blocks: blocks,
		audit:  audit,
		logger: logger,
	}
}

// AddFavorite marks favoriteUserID as a favorite of userID unless userID has blocked them
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, favoriteUserID int64) (*models.Favorite, error) {
	if err := validatePair(userID, favoriteUserID); err != nil {
		return nil, err
	}
	if err := requireUsers(ctx, s.users, userID, favoriteUserID); err != nil {
		return nil, failure(s.logger, "failed to look up users", err, slog.Int64("user_id", userID))
	}

	blocked, err := s.blocks.BlockExists(ctx, userID, favoriteUserID)
	if err != nil {
		return nil, failure(s.logger, "failed to check block", err, slog.Int64("user_id", userID))
	}
	if blocked {
		return nil, fmt.Errorf("%w: blocked user cannot be favorited", models.ErrInvalidArgument)
	}

	id := models.FavoriteID{UserID: userID, FavoriteUserID: favoriteUserID}
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, failure(s.logger, "failed to check favorite", err, slog.Int64("user_id", userID))
	}
	if exists {
		return nil, fmt.Errorf("%w: user %d already favorited user %d", models.ErrConflict, userID, favoriteUserID)
	}

	favorite, err := s.repo.Create(ctx, id)
	if err != nil {
		return nil, failure(s.logger, "failed to add favorite", err,
			slog.Int64("user_id", userID), slog.Int64("favorite_user_id", favoriteUserID))
	}

	s.audit.LogRelationChange(ctx, logger.AuditEvent{
		EventType:    logger.EventFavoriteCreated,
		UserID:       userID,
		TargetUserID: favoriteUserID,
		Success:      true,
	})
	return favorite, nil
}

// DeleteFavorite removes an existing favorite. Missing pairs are an invalid argument.
func (s *FavoriteService) DeleteFavorite(ctx context.Context, userID, favoriteUserID int64) error {
	if err := validatePair(userID, favoriteUserID); err != nil {
		return err
	}
	if err := requireUsers(ctx, s.users, userID, favoriteUserID); err != nil {
		return failure(s.logger, "failed to look up users", err, slog.Int64("user_id", userID))
	}

	id := models.FavoriteID{UserID: userID, FavoriteUserID: favoriteUserID}
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return failure(s.logger, "failed to check favorite", err, slog.Int64("user_id", userID))
	}
	if !exists {
		return fmt.Errorf("%w: favorite relationship does not exist", models.ErrInvalidArgument)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return failure(s.logger, "failed to delete favorite", err,
			slog.Int64("user_id", userID), slog.Int64("favorite_user_id", favoriteUserID))
	}

	s.audit.LogRelationChange(ctx, logger.AuditEvent{
		EventType:    logger.EventFavoriteRemoved,
		UserID:       userID,
		TargetUserID: favoriteUserID,
		Success:      true,
	})
	return nil
}

func (s *FavoriteService) FavoriteExists(ctx context.Context, userID, favoriteUserID int64) (bool, error) {
	exists, err := s.repo.Exists(ctx, models.FavoriteID{UserID: userID, FavoriteUserID: favoriteUserID})
	if err != nil {
		return false, failure(s.logger, "failed to check favorite", err, slog.Int64("user_id", userID))
	}
	return exists, nil
}

// GetFavoriteUsers returns one zero-based page of ids userID marked as favorites
func (s *FavoriteService) GetFavoriteUsers(ctx context.Context, userID int64, page, pageSize int) ([]int64, error) {
	limit, offset, err := pageBounds(page, pageSize)
	if err != nil {
		return nil, err
	}
	if err := requireUsers(ctx, s.users, userID); err != nil {
		return nil, failure(s.logger, "failed to look up user", err, slog.Int64("user_id", userID))
	}

	ids, err := s.repo.ListFavoriteUserIDs(ctx, userID, limit, offset)
	if err != nil {
		return nil, failure(s.logger, "failed to list favorites", err, slog.Int64("user_id", userID))
	}
	return ids, nil
}

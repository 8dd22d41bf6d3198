package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/userservice/internal/models"
	"github.com/BradenHooton/userservice/pkg/logger"
)

// BlockRepository defines the interface for block data access
type BlockRepository interface {
	Exists(ctx context.Context, id models.BlockID) (bool, error)
	Create(ctx context.Context, id models.BlockID) (*models.Block, error)
	Delete(ctx context.Context, id models.BlockID) error
	ListBlockedUserIDs(ctx context.Context, blockingUserID int64, limit, offset int) ([]int64, error)
}

// FavoriteRemover is the part of the favorite registry a block needs to clean up after itself
type FavoriteRemover interface {
	FavoriteExists(ctx context.Context, userID, favoriteUserID int64) (bool, error)
	DeleteFavorite(ctx context.Context, userID, favoriteUserID int64) error
}

// BlockService manages directed block relations between users
type BlockService struct {
	repo      BlockRepository
	users     UserLookup
	tx        Transactor
	favorites FavoriteRemover
	audit     *logger.AuditLogger
	logger    *slog.Logger
}

// NewBlockService creates a BlockService. Call SetFavoriteRemover before serving requests.
func NewBlockService(repo BlockRepository, users UserLookup, tx Transactor, audit *logger.AuditLogger, logger *slog.Logger) *BlockService {
	return &BlockService{
		repo:   repo,
		users:  users,
		tx:     tx,
		audit:  audit,
		logger: logger,
	}
}

// SetFavoriteRemover wires the favorite registry after both services exist
func (s *BlockService) SetFavoriteRemover(favorites FavoriteRemover) {
	s.favorites = favorites
}

// BlockUser records that userID blocks blockedUserID and drops userID's favorite of
// blockedUserID in the same transaction.
func (s *BlockService) BlockUser(ctx context.Context, userID, blockedUserID int64) error {
	if err := validatePair(userID, blockedUserID); err != nil {
		return err
	}
	if s.favorites == nil {
		s.logger.Error("block service used without favorite remover")
		return models.ErrInternalServer
	}
	if err := requireUsers(ctx, s.users, userID, blockedUserID); err != nil {
		return failure(s.logger, "failed to look up users", err, slog.Int64("user_id", userID))
	}

	id := models.BlockID{BlockingUserID: userID, BlockedUserID: blockedUserID}
	removedFavorite := false

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: user %d already blocked user %d", models.ErrConflict, userID, blockedUserID)
		}

		if _, err := s.repo.Create(ctx, id); err != nil {
			return err
		}

		isFavorite, err := s.favorites.FavoriteExists(ctx, userID, blockedUserID)
		if err != nil {
			return err
		}
		if isFavorite {
			if err := s.favorites.DeleteFavorite(ctx, userID, blockedUserID); err != nil {
				return err
			}
			removedFavorite = true
		}
		return nil
	})
	if err != nil {
		return failure(s.logger, "failed to block user", err,
			slog.Int64("user_id", userID), slog.Int64("blocked_user_id", blockedUserID))
	}

	s.audit.LogRelationChange(ctx, logger.AuditEvent{
		EventType:    logger.EventBlockCreated,
		UserID:       userID,
		TargetUserID: blockedUserID,
		Success:      true,
		Metadata:     map[string]string{"favorite_removed": fmt.Sprint(removedFavorite)},
	})
	return nil
}

// UnblockUser removes an existing block. Favorites are not restored.
func (s *BlockService) UnblockUser(ctx context.Context, userID, blockedUserID int64) error {
	if err := validatePair(userID, blockedUserID); err != nil {
		return err
	}
	if err := requireUsers(ctx, s.users, userID, blockedUserID); err != nil {
		return failure(s.logger, "failed to look up users", err, slog.Int64("user_id", userID))
	}

	id := models.BlockID{BlockingUserID: userID, BlockedUserID: blockedUserID}
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return failure(s.logger, "failed to check block", err, slog.Int64("user_id", userID))
	}
	if !exists {
		return fmt.Errorf("%w: block relationship does not exist", models.ErrInvalidArgument)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return failure(s.logger, "failed to unblock user", err,
			slog.Int64("user_id", userID), slog.Int64("blocked_user_id", blockedUserID))
	}

	s.audit.LogRelationChange(ctx, logger.AuditEvent{
		EventType:    logger.EventBlockRemoved,
		UserID:       userID,
		TargetUserID: blockedUserID,
		Success:      true,
	})
	return nil
}

// BlockExists is a plain lookup and does not validate ids
func (s *BlockService) BlockExists(ctx context.Context, userID, blockedUserID int64) (bool, error) {
	exists, err := s.repo.Exists(ctx, models.BlockID{BlockingUserID: userID, BlockedUserID: blockedUserID})
	if err != nil {
		return false, failure(s.logger, "failed to check block", err, slog.Int64("user_id", userID))
	}
	return exists, nil
}

// GetBlockedUsersByUserID returns one zero-based page of ids blocked by userID
func (s *BlockService) GetBlockedUsersByUserID(ctx context.Context, userID int64, page, pageSize int) ([]int64, error) {
	limit, offset, err := pageBounds(page, pageSize)
	if err != nil {
		return nil, err
	}
	if err := requireUsers(ctx, s.users, userID); err != nil {
		return nil, failure(s.logger, "failed to look up user", err, slog.Int64("user_id", userID))
	}

	ids, err := s.repo.ListBlockedUserIDs(ctx, userID, limit, offset)
	if err != nil {
		return nil, failure(s.logger, "failed to list blocked users", err, slog.Int64("user_id", userID))
	}
	return ids, nil
}

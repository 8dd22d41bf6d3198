package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/userservice/internal/database"
	"github.com/BradenHooton/userservice/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(db *database.DB) *AvailabilityRepository {
	return &AvailabilityRepository{pool: db.Pool}
}

func (r *AvailabilityRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Availability, error) {
	rows, err := database.Conn(ctx, r.pool).Query(ctx,
		`SELECT id, user_id, start_time, end_time FROM availabilities WHERE user_id = $1 ORDER BY start_time, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query availabilities: %w", err)
	}
	defer rows.Close()

	windows := make([]*models.Availability, 0)
	for rows.Next() {
		var a models.Availability
		if err := rows.Scan(&a.ID, &a.UserID, &a.StartTime, &a.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		windows = append(windows, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return windows, nil
}

func (r *AvailabilityRepository) Create(ctx context.Context, a *models.Availability) (*models.Availability, error) {
	created := *a
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO availabilities (user_id, start_time, end_time) VALUES ($1, $2, $3) RETURNING id`,
		a.UserID, a.StartTime, a.EndTime,
	).Scan(&created.ID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &created, nil
}

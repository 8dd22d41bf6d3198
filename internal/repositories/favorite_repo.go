package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/userservice/internal/database"
	"github.com/BradenHooton/userservice/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FavoriteRepository struct {
	pool *pgxpool.Pool
}

func NewFavoriteRepository(db *database.DB) *FavoriteRepository {
	return &FavoriteRepository{pool: db.Pool}
}

func (r *FavoriteRepository) Exists(ctx context.Context, id models.FavoriteID) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND favorite_user_id = $2)`,
		id.UserID, id.FavoriteUserID,
	).Scan(&exists)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

func (r *FavoriteRepository) Create(ctx context.Context, id models.FavoriteID) (*models.Favorite, error) {
	favorite := &models.Favorite{ID: id}
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO favorites (user_id, favorite_user_id) VALUES ($1, $2) RETURNING created_at`,
		id.UserID, id.FavoriteUserID,
	).Scan(&favorite.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return favorite, nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, id models.FavoriteID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND favorite_user_id = $2`,
		id.UserID, id.FavoriteUserID,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListFavoriteUserIDs returns one page of ids userID marked as favorites, oldest first
func (r *FavoriteRepository) ListFavoriteUserIDs(ctx context.Context, userID int64, limit, offset int) ([]int64, error) {
	query := `
		SELECT favorite_user_id FROM favorites
		WHERE user_id = $1
		ORDER BY created_at, favorite_user_id
		LIMIT $2 OFFSET $3
	`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}

	return scanIDRows(rows)
}

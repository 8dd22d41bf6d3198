package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/userservice/internal/database"
	"github.com/BradenHooton/userservice/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlockRepository struct {
	pool *pgxpool.Pool
}

func NewBlockRepository(db *database.DB) *BlockRepository {
	return &BlockRepository{pool: db.Pool}
}

func (r *BlockRepository) Exists(ctx context.Context, id models.BlockID) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM blocks WHERE blocking_user_id = $1 AND blocked_user_id = $2)`,
		id.BlockingUserID, id.BlockedUserID,
	).Scan(&exists)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

func (r *BlockRepository) Create(ctx context.Context, id models.BlockID) (*models.Block, error) {
	block := &models.Block{ID: id}
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO blocks (blocking_user_id, blocked_user_id) VALUES ($1, $2) RETURNING created_at`,
		id.BlockingUserID, id.BlockedUserID,
	).Scan(&block.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return block, nil
}

func (r *BlockRepository) Delete(ctx context.Context, id models.BlockID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM blocks WHERE blocking_user_id = $1 AND blocked_user_id = $2`,
		id.BlockingUserID, id.BlockedUserID,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListBlockedUserIDs returns one page of ids blocked by blockingUserID, oldest block first
func (r *BlockRepository) ListBlockedUserIDs(ctx context.Context, blockingUserID int64, limit, offset int) ([]int64, error) {
	query := `
		SELECT blocked_user_id FROM blocks
		WHERE blocking_user_id = $1
		ORDER BY created_at, blocked_user_id
		LIMIT $2 OFFSET $3
	`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, blockingUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks: %w", err)
	}

	return scanIDRows(rows)
}

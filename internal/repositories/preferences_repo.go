package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/userservice/internal/database"
	"github.com/BradenHooton/userservice/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type PreferencesRepository struct {
	pool *pgxpool.Pool
}

func NewPreferencesRepository(db *database.DB) *PreferencesRepository {
	return &PreferencesRepository{pool: db.Pool}
}

func (r *PreferencesRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM preferences WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

func (r *PreferencesRepository) GetByUserID(ctx context.Context, userID int64) (*models.Preferences, error) {
	query := `
		SELECT p.user_id, p.preferred_distance, p.preferred_experience,
			COALESCE(array_agg(w.category_id ORDER BY w.category_id) FILTER (WHERE w.category_id IS NOT NULL), '{}')
		FROM preferences p
		LEFT JOIN wanted_categories w ON w.preferences_id = p.user_id
		WHERE p.user_id = $1
		GROUP BY p.user_id
	`

	var prefs models.Preferences
	var categoryIDs []int32
	err := database.Conn(ctx, r.pool).QueryRow(ctx, query, userID).Scan(
		&prefs.UserID, &prefs.PreferredDistance, &prefs.PreferredExperience, &categoryIDs,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	prefs.WantedCategories = make([]models.JobCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		category, err := models.JobCategoryFromID(int(id))
		if err != nil {
			return nil, fmt.Errorf("stored category: %w", err)
		}
		prefs.WantedCategories = append(prefs.WantedCategories, category)
	}

	return &prefs, nil
}

// Create inserts the preferences row and its wanted categories. Call inside a transaction.
func (r *PreferencesRepository) Create(ctx context.Context, prefs *models.Preferences) error {
	_, err := database.Conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO preferences (user_id, preferred_distance, preferred_experience) VALUES ($1, $2, $3)`,
		prefs.UserID, prefs.PreferredDistance, prefs.PreferredExperience,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	return r.insertCategories(ctx, prefs)
}

// Update replaces the scalar fields and the whole category set. Call inside a transaction.
func (r *PreferencesRepository) Update(ctx context.Context, prefs *models.Preferences) error {
	conn := database.Conn(ctx, r.pool)

	tag, err := conn.Exec(ctx,
		`UPDATE preferences SET preferred_distance = $2, preferred_experience = $3 WHERE user_id = $1`,
		prefs.UserID, prefs.PreferredDistance, prefs.PreferredExperience,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	if _, err := conn.Exec(ctx, `DELETE FROM wanted_categories WHERE preferences_id = $1`, prefs.UserID); err != nil {
		return database.MapPostgresError(err)
	}
	return r.insertCategories(ctx, prefs)
}

func (r *PreferencesRepository) insertCategories(ctx context.Context, prefs *models.Preferences) error {
	ids := prefs.WantedCategoryIDs()
	if len(ids) == 0 {
		return nil
	}

	categoryIDs := make([]int64, 0, len(ids))
	for _, id := range ids {
		categoryIDs = append(categoryIDs, int64(id.CategoryID.ID()))
	}

	_, err := database.Conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO wanted_categories (preferences_id, category_id)
		 SELECT $1, unnest($2::smallint[])
		 ON CONFLICT DO NOTHING`,
		prefs.UserID, pq.Array(categoryIDs),
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	return nil
}

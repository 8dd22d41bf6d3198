package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/userservice/internal/database"
	"github.com/BradenHooton/userservice/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

const userColumns = `id, name, surname, email, phone, address, city, zip_code, country,
	birthday, status, verified, start_time, end_time, profile_picture_path, created_at`

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var birthday *time.Time
	var status int16
	var startTime, endTime pgtype.Time

	err := scanner.Scan(
		&user.ID, &user.Name, &user.Surname, &user.Email, &user.Phone,
		&user.Address, &user.City, &user.ZipCode, &user.Country,
		&birthday, &status, &user.Verified, &startTime, &endTime,
		&user.ProfilePicturePath, &user.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if birthday != nil {
		user.Birthday = *birthday
	}
	user.Status = models.Status(status)
	user.StartTime = timeOfDayFromPG(startTime)
	user.EndTime = timeOfDayFromPG(endTime)

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func timeOfDayFromPG(t pgtype.Time) *models.TimeOfDay {
	if !t.Valid {
		return nil
	}
	tod := models.TimeOfDay(time.Duration(t.Microseconds) * time.Microsecond)
	return &tod
}

func timeOfDayToPG(t *models.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUserRow(database.Conn(ctx, r.pool).QueryRow(ctx, query, id))
}

// GetByIDForUpdate locks the row until the surrounding transaction ends
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	return scanUserRow(database.Conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, surname, email, phone, address, city, zip_code, country,
			birthday, status, verified, start_time, end_time, profile_picture_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + userColumns

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	return scanUserRow(database.Conn(ctx, r.pool).QueryRow(ctx, query,
		user.ID, user.Name, user.Surname, user.Email, user.Phone,
		user.Address, user.City, user.ZipCode, user.Country,
		nullableDate(user.Birthday), int16(user.Status), user.Verified,
		timeOfDayToPG(user.StartTime), timeOfDayToPG(user.EndTime),
		user.ProfilePicturePath, user.CreatedAt,
	))
}

// Update persists every mutable column of user
func (r *UserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $2, surname = $3, email = $4, phone = $5, address = $6, city = $7,
			zip_code = $8, country = $9, birthday = $10, status = $11, verified = $12,
			start_time = $13, end_time = $14, profile_picture_path = $15
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUserRow(database.Conn(ctx, r.pool).QueryRow(ctx, query,
		user.ID, user.Name, user.Surname, user.Email, user.Phone,
		user.Address, user.City, user.ZipCode, user.Country,
		nullableDate(user.Birthday), int16(user.Status), user.Verified,
		timeOfDayToPG(user.StartTime), timeOfDayToPG(user.EndTime),
		user.ProfilePicturePath,
	))
}

// SetProfilePicturePath stores or clears (empty path) the picture key
func (r *UserRepository) SetProfilePicturePath(ctx context.Context, id int64, path string) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET profile_picture_path = $2 WHERE id = $1`, id, path)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateWorkingHours(ctx context.Context, id int64, start, end models.TimeOfDay) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET start_time = $2, end_time = $3 WHERE id = $1`,
		id, timeOfDayToPG(&start), timeOfDayToPG(&end))
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE phone = $1)`, phone).Scan(&exists)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

func scanIDRows(rows pgx.Rows) ([]int64, error) {
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}

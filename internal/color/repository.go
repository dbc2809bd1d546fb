package color

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository defines the interface for color preset persistence operations.
type Repository interface {
	Create(ctx context.Context, c *Color) error
	List(ctx context.Context) ([]Color, error)
	Get(ctx context.Context, id int64) (*Color, error)
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed color repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new color preset and assigns its generated ID.
func (r *SQLiteRepository) Create(ctx context.Context, c *Color) error {
	const query = `INSERT INTO colors (name, red_value, green_value, blue_value, white_value)
		VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, c.Name, c.Red, c.Green, c.Blue, nullIntVal(c.White))
	if err != nil {
		return fmt.Errorf("inserting color %s: %w", c.Name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading color insert id: %w", err)
	}
	c.ID = id
	return nil
}

// List returns all color presets ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Color, error) {
	const query = `SELECT id, name, red_value, green_value, blue_value, white_value
		FROM colors ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying colors: %w", err)
	}
	defer rows.Close()

	var colors []Color
	for rows.Next() {
		var c Color
		var white sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &c.Red, &c.Green, &c.Blue, &white); err != nil {
			return nil, fmt.Errorf("scanning color row: %w", err)
		}
		if white.Valid {
			w := int(white.Int64)
			c.White = &w
		}
		colors = append(colors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating color rows: %w", err)
	}
	return colors, nil
}

// Get returns a single color preset by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*Color, error) {
	const query = `SELECT id, name, red_value, green_value, blue_value, white_value
		FROM colors WHERE id = ?`
	var c Color
	var white sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Red, &c.Green, &c.Blue, &white)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning color: %w", err)
	}
	if white.Valid {
		w := int(white.Int64)
		c.White = &w
	}
	return &c, nil
}

// Update applies a partial update to a color preset.
// Nil patch fields are left unchanged.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch Patch) error {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Red != nil {
		sets = append(sets, "red_value = ?")
		args = append(args, *patch.Red)
	}
	if patch.Green != nil {
		sets = append(sets, "green_value = ?")
		args = append(args, *patch.Green)
	}
	if patch.Blue != nil {
		sets = append(sets, "blue_value = ?")
		args = append(args, *patch.Blue)
	}
	if patch.White != nil {
		sets = append(sets, "white_value = ?")
		args = append(args, *patch.White)
	}
	if len(sets) == 0 {
		_, err := r.Get(ctx, id)
		return err
	}

	query := "UPDATE colors SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating color %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a color preset by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM colors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting color %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullIntVal converts a *int to sql.NullInt64 for nullable columns.
func nullIntVal(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

package sensor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository defines the interface for DHT sensor persistence operations.
type Repository interface {
	Create(ctx context.Context, s *DHT) error
	List(ctx context.Context) ([]DHT, error)
	Get(ctx context.Context, id string) (*DHT, error)
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed sensor repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new DHT sensor into the database.
func (r *SQLiteRepository) Create(ctx context.Context, s *DHT) error {
	const query = `INSERT INTO dht_sensors (id, name, ip_address, project_id)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.IPAddress, nullInt(s.ProjectID))
	if err != nil {
		return fmt.Errorf("inserting sensor %s: %w", s.ID, err)
	}
	return nil
}

// List returns all DHT sensors ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]DHT, error) {
	const query = `SELECT id, name, ip_address, project_id
		FROM dht_sensors ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying sensors: %w", err)
	}
	defer rows.Close()

	var sensors []DHT
	for rows.Next() {
		var s DHT
		var projectID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Name, &s.IPAddress, &projectID); err != nil {
			return nil, fmt.Errorf("scanning sensor row: %w", err)
		}
		if projectID.Valid {
			s.ProjectID = &projectID.Int64
		}
		sensors = append(sensors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sensor rows: %w", err)
	}
	return sensors, nil
}

// Get returns a single DHT sensor by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*DHT, error) {
	const query = `SELECT id, name, ip_address, project_id
		FROM dht_sensors WHERE id = ?`
	var s DHT
	var projectID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.IPAddress, &projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning sensor: %w", err)
	}
	if projectID.Valid {
		s.ProjectID = &projectID.Int64
	}
	return &s, nil
}

// Update applies a partial update to a DHT sensor.
// Nil patch fields are left unchanged.
func (r *SQLiteRepository) Update(ctx context.Context, id string, patch Patch) error {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.IPAddress != nil {
		sets = append(sets, "ip_address = ?")
		args = append(args, *patch.IPAddress)
	}
	if patch.ProjectID != nil {
		sets = append(sets, "project_id = ?")
		args = append(args, *patch.ProjectID)
	}
	if len(sets) == 0 {
		_, err := r.Get(ctx, id)
		return err
	}

	query := "UPDATE dht_sensors SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating sensor %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a DHT sensor by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM dht_sensors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting sensor %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullInt converts a *int64 to sql.NullInt64 for nullable columns.
func nullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository defines the interface for project persistence operations.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	List(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id int64) (*Project, error)
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed project repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new project and assigns its generated ID.
func (r *SQLiteRepository) Create(ctx context.Context, p *Project) error {
	const query = `INSERT INTO projects (name, description, activated)
		VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Activated)
	if err != nil {
		return fmt.Errorf("inserting project %s: %w", p.Name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project insert id: %w", err)
	}
	p.ID = id
	return nil
}

// List returns all projects ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Project, error) {
	const query = `SELECT id, name, description, activated
		FROM projects ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Activated); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}
	return projects, nil
}

// Get returns a single project by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*Project, error) {
	const query = `SELECT id, name, description, activated
		FROM projects WHERE id = ?`
	var p Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Activated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return &p, nil
}

// Update applies a partial update to a project.
// Nil patch fields are left unchanged.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch Patch) error {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Activated != nil {
		sets = append(sets, "activated = ?")
		args = append(args, *patch.Activated)
	}
	if len(sets) == 0 {
		_, err := r.Get(ctx, id)
		return err
	}

	query := "UPDATE projects SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating project %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a project by ID.
// Devices referencing it keep existing with project_id cleared by the
// ON DELETE SET NULL constraints.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

package switchboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Repository defines the interface for switchboard and switch persistence.
type Repository interface {
	CreateBoard(ctx context.Context, board *Switchboard) error
	ListBoards(ctx context.Context) ([]Switchboard, error)
	GetBoard(ctx context.Context, id string) (*Switchboard, error)
	UpdateBoard(ctx context.Context, id string, patch BoardPatch) error
	DeleteBoard(ctx context.Context, id string) error

	CreateSwitch(ctx context.Context, sw *Switch) error
	ListSwitches(ctx context.Context) ([]Switch, error)
	ListSwitchesByBoard(ctx context.Context, boardID string) ([]Switch, error)
	GetSwitch(ctx context.Context, id int64) (*Switch, error)
	GetSwitchByBoardAndPosition(ctx context.Context, boardID string, position int) (*Switch, error)
	UpdateSwitch(ctx context.Context, id int64, patch SwitchPatch) error
	DeleteSwitch(ctx context.Context, id int64) error
	SetState(ctx context.Context, id int64, state bool) error
	SetLocked(ctx context.Context, id int64, locked bool) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed switchboard repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateBoard inserts a new switchboard into the database.
func (r *SQLiteRepository) CreateBoard(ctx context.Context, board *Switchboard) error {
	const query = `INSERT INTO switchboards (id, name, ip_address, project_id)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		board.ID, board.Name, board.IPAddress, nullInt(board.ProjectID))
	if err != nil {
		return fmt.Errorf("inserting switchboard %s: %w", board.ID, err)
	}
	return nil
}

// ListBoards returns all switchboards ordered by name.
func (r *SQLiteRepository) ListBoards(ctx context.Context) ([]Switchboard, error) {
	const query = `SELECT id, name, ip_address, project_id
		FROM switchboards ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying switchboards: %w", err)
	}
	defer rows.Close()

	var boards []Switchboard
	for rows.Next() {
		var b Switchboard
		var projectID sql.NullInt64
		if err := rows.Scan(&b.ID, &b.Name, &b.IPAddress, &projectID); err != nil {
			return nil, fmt.Errorf("scanning switchboard row: %w", err)
		}
		if projectID.Valid {
			b.ProjectID = &projectID.Int64
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating switchboard rows: %w", err)
	}
	return boards, nil
}

// GetBoard returns a single switchboard by ID.
func (r *SQLiteRepository) GetBoard(ctx context.Context, id string) (*Switchboard, error) {
	const query = `SELECT id, name, ip_address, project_id
		FROM switchboards WHERE id = ?`
	var b Switchboard
	var projectID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.IPAddress, &projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("scanning switchboard: %w", err)
	}
	if projectID.Valid {
		b.ProjectID = &projectID.Int64
	}
	return &b, nil
}

// UpdateBoard applies a partial update to a switchboard.
// Nil patch fields are left unchanged.
func (r *SQLiteRepository) UpdateBoard(ctx context.Context, id string, patch BoardPatch) error {
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
		// Nothing to change; still verify the row exists.
		_, err := r.GetBoard(ctx, id)
		return err
	}

	query := "UPDATE switchboards SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating switchboard %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// DeleteBoard removes a switchboard by ID.
// Child switches are removed by the ON DELETE CASCADE constraint.
func (r *SQLiteRepository) DeleteBoard(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM switchboards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting switchboard %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// CreateSwitch inserts a new switch and assigns its generated ID.
// Returns ErrDuplicatePosition if the position is already taken on the board.
func (r *SQLiteRepository) CreateSwitch(ctx context.Context, sw *Switch) error {
	const query = `INSERT INTO switches (name, position, state, locked, switchboard_id)
		VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		sw.Name, sw.Position, sw.State, sw.Locked, sw.SwitchboardID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePosition
		}
		return fmt.Errorf("inserting switch on board %s: %w", sw.SwitchboardID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading switch insert id: %w", err)
	}
	sw.ID = id
	return nil
}

// ListSwitches returns all switches ordered by board then position.
func (r *SQLiteRepository) ListSwitches(ctx context.Context) ([]Switch, error) {
	const query = `SELECT id, name, position, state, locked, switchboard_id
		FROM switches ORDER BY switchboard_id, position`
	return r.querySwitches(ctx, query)
}

// ListSwitchesByBoard returns the switches on a specific switchboard
// ordered by position.
func (r *SQLiteRepository) ListSwitchesByBoard(ctx context.Context, boardID string) ([]Switch, error) {
	const query = `SELECT id, name, position, state, locked, switchboard_id
		FROM switches WHERE switchboard_id = ? ORDER BY position`
	return r.querySwitches(ctx, query, boardID)
}

// GetSwitch returns a single switch by ID.
func (r *SQLiteRepository) GetSwitch(ctx context.Context, id int64) (*Switch, error) {
	const query = `SELECT id, name, position, state, locked, switchboard_id
		FROM switches WHERE id = ?`
	return r.scanSwitch(r.db.QueryRowContext(ctx, query, id))
}

// GetSwitchByBoardAndPosition returns the switch at a given position on a
// switchboard. The UNIQUE(switchboard_id, position) constraint guarantees
// at most one row.
func (r *SQLiteRepository) GetSwitchByBoardAndPosition(ctx context.Context, boardID string, position int) (*Switch, error) {
	const query = `SELECT id, name, position, state, locked, switchboard_id
		FROM switches WHERE switchboard_id = ? AND position = ?`
	return r.scanSwitch(r.db.QueryRowContext(ctx, query, boardID, position))
}

// UpdateSwitch applies a partial update to a switch.
// Nil patch fields are left unchanged.
func (r *SQLiteRepository) UpdateSwitch(ctx context.Context, id int64, patch SwitchPatch) error {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *patch.Position)
	}
	if patch.State != nil {
		sets = append(sets, "state = ?")
		args = append(args, *patch.State)
	}
	if patch.Locked != nil {
		sets = append(sets, "locked = ?")
		args = append(args, *patch.Locked)
	}
	if len(sets) == 0 {
		_, err := r.GetSwitch(ctx, id)
		return err
	}

	query := "UPDATE switches SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePosition
		}
		return fmt.Errorf("updating switch %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrSwitchNotFound
	}
	return nil
}

// DeleteSwitch removes a single switch by ID.
func (r *SQLiteRepository) DeleteSwitch(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM switches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting switch %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrSwitchNotFound
	}
	return nil
}

// SetState records the last known relay state for a switch.
// The lock flag is not consulted here: state reflects what the device
// actually did, which is decided at grouping time.
func (r *SQLiteRepository) SetState(ctx context.Context, id int64, state bool) error {
	result, err := r.db.ExecContext(ctx, "UPDATE switches SET state = ? WHERE id = ?", state, id)
	if err != nil {
		return fmt.Errorf("setting state for switch %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrSwitchNotFound
	}
	return nil
}

// SetLocked sets or clears the lock flag on a switch.
func (r *SQLiteRepository) SetLocked(ctx context.Context, id int64, locked bool) error {
	result, err := r.db.ExecContext(ctx, "UPDATE switches SET locked = ? WHERE id = ?", locked, id)
	if err != nil {
		return fmt.Errorf("setting lock for switch %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrSwitchNotFound
	}
	return nil
}

// querySwitches executes a query and returns a slice of Switch.
func (r *SQLiteRepository) querySwitches(ctx context.Context, query string, args ...any) ([]Switch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying switches: %w", err)
	}
	defer rows.Close()

	var switches []Switch
	for rows.Next() {
		var sw Switch
		if err := rows.Scan(&sw.ID, &sw.Name, &sw.Position, &sw.State, &sw.Locked, &sw.SwitchboardID); err != nil {
			return nil, fmt.Errorf("scanning switch row: %w", err)
		}
		switches = append(switches, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating switch rows: %w", err)
	}
	return switches, nil
}

// scanSwitch scans a single row into a Switch (for QueryRow).
func (r *SQLiteRepository) scanSwitch(row *sql.Row) (*Switch, error) {
	var sw Switch
	err := row.Scan(&sw.ID, &sw.Name, &sw.Position, &sw.State, &sw.Locked, &sw.SwitchboardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSwitchNotFound
		}
		return nil, fmt.Errorf("scanning switch: %w", err)
	}
	return &sw, nil
}

// nullInt converts a *int64 to sql.NullInt64 for nullable columns.
func nullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

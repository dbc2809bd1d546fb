package audio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Repository defines the interface for audioboard and audiotrack persistence.
type Repository interface {
	CreateBoard(ctx context.Context, board *Audioboard) error
	ListBoards(ctx context.Context) ([]Audioboard, error)
	GetBoard(ctx context.Context, id string) (*Audioboard, error)
	BoardExists(ctx context.Context, id string) (bool, error)
	UpdateBoard(ctx context.Context, id string, patch BoardPatch) error
	DeleteBoard(ctx context.Context, id string) error

	CreateTrack(ctx context.Context, track *Audiotrack) error
	ListTracks(ctx context.Context, audioboardID string) ([]Audiotrack, error)
	GetTrack(ctx context.Context, trackID int64) (*Audiotrack, error)
	UpdateTrack(ctx context.Context, trackID int64, patch TrackPatch) error
	DeleteTrack(ctx context.Context, trackID int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed audio repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateBoard inserts a new audioboard into the database.
func (r *SQLiteRepository) CreateBoard(ctx context.Context, board *Audioboard) error {
	if board.APIPort == 0 {
		board.APIPort = 8080
	}
	const query = `INSERT INTO audioboards (id, name, ip_address, api_port, project_id)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		board.ID, board.Name, board.IPAddress, board.APIPort, nullInt(board.ProjectID))
	if err != nil {
		return fmt.Errorf("inserting audioboard %s: %w", board.ID, err)
	}
	return nil
}

// ListBoards returns all audioboards ordered by name.
func (r *SQLiteRepository) ListBoards(ctx context.Context) ([]Audioboard, error) {
	const query = `SELECT id, name, ip_address, api_port, project_id
		FROM audioboards ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying audioboards: %w", err)
	}
	defer rows.Close()

	var boards []Audioboard
	for rows.Next() {
		var b Audioboard
		var projectID sql.NullInt64
		if err := rows.Scan(&b.ID, &b.Name, &b.IPAddress, &b.APIPort, &projectID); err != nil {
			return nil, fmt.Errorf("scanning audioboard row: %w", err)
		}
		if projectID.Valid {
			b.ProjectID = &projectID.Int64
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audioboard rows: %w", err)
	}
	return boards, nil
}

// GetBoard returns a single audioboard by ID.
func (r *SQLiteRepository) GetBoard(ctx context.Context, id string) (*Audioboard, error) {
	const query = `SELECT id, name, ip_address, api_port, project_id
		FROM audioboards WHERE id = ?`
	var b Audioboard
	var projectID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.IPAddress, &b.APIPort, &projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("scanning audioboard: %w", err)
	}
	if projectID.Valid {
		b.ProjectID = &projectID.Int64
	}
	return &b, nil
}

// BoardExists reports whether an audioboard with the given ID is registered.
func (r *SQLiteRepository) BoardExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audioboards WHERE id = ?", id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking audioboard %s: %w", id, err)
	}
	return n > 0, nil
}

// UpdateBoard applies a partial update to an audioboard.
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
	if patch.APIPort != nil {
		sets = append(sets, "api_port = ?")
		args = append(args, *patch.APIPort)
	}
	if patch.ProjectID != nil {
		sets = append(sets, "project_id = ?")
		args = append(args, *patch.ProjectID)
	}
	if len(sets) == 0 {
		_, err := r.GetBoard(ctx, id)
		return err
	}

	query := "UPDATE audioboards SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating audioboard %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// DeleteBoard removes an audioboard by ID.
// Its tracks are removed by the ON DELETE CASCADE constraint.
func (r *SQLiteRepository) DeleteBoard(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM audioboards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting audioboard %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// CreateTrack inserts a new audiotrack and assigns its generated ID.
// Returns ErrDuplicateTrack if the name is already used on the board.
func (r *SQLiteRepository) CreateTrack(ctx context.Context, track *Audiotrack) error {
	const query = `INSERT INTO audiotracks (name, audio_path, loop, random, audioboard_id)
		VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		track.Name, track.AudioPath, track.Loop, track.Random, track.AudioboardID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTrack
		}
		return fmt.Errorf("inserting audiotrack %s: %w", track.Name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading audiotrack insert id: %w", err)
	}
	track.TrackID = id
	return nil
}

// ListTracks returns audiotracks ordered by name. When audioboardID is
// non-empty, only tracks on that board are returned.
func (r *SQLiteRepository) ListTracks(ctx context.Context, audioboardID string) ([]Audiotrack, error) {
	query := `SELECT track_id, name, audio_path, loop, random, audioboard_id
		FROM audiotracks`
	var args []any
	if audioboardID != "" {
		query += " WHERE audioboard_id = ?"
		args = append(args, audioboardID)
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audiotracks: %w", err)
	}
	defer rows.Close()

	var tracks []Audiotrack
	for rows.Next() {
		var t Audiotrack
		if err := rows.Scan(&t.TrackID, &t.Name, &t.AudioPath, &t.Loop, &t.Random, &t.AudioboardID); err != nil {
			return nil, fmt.Errorf("scanning audiotrack row: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audiotrack rows: %w", err)
	}
	return tracks, nil
}

// GetTrack returns a single audiotrack by ID.
func (r *SQLiteRepository) GetTrack(ctx context.Context, trackID int64) (*Audiotrack, error) {
	const query = `SELECT track_id, name, audio_path, loop, random, audioboard_id
		FROM audiotracks WHERE track_id = ?`
	var t Audiotrack
	err := r.db.QueryRowContext(ctx, query, trackID).
		Scan(&t.TrackID, &t.Name, &t.AudioPath, &t.Loop, &t.Random, &t.AudioboardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("scanning audiotrack: %w", err)
	}
	return &t, nil
}

// UpdateTrack applies a partial update to an audiotrack.
// Nil patch fields are left unchanged.
func (r *SQLiteRepository) UpdateTrack(ctx context.Context, trackID int64, patch TrackPatch) error {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.AudioPath != nil {
		sets = append(sets, "audio_path = ?")
		args = append(args, *patch.AudioPath)
	}
	if patch.Loop != nil {
		sets = append(sets, "loop = ?")
		args = append(args, *patch.Loop)
	}
	if patch.Random != nil {
		sets = append(sets, "random = ?")
		args = append(args, *patch.Random)
	}
	if len(sets) == 0 {
		_, err := r.GetTrack(ctx, trackID)
		return err
	}

	query := "UPDATE audiotracks SET " + strings.Join(sets, ", ") + " WHERE track_id = ?"
	args = append(args, trackID)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTrack
		}
		return fmt.Errorf("updating audiotrack %d: %w", trackID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrTrackNotFound
	}
	return nil
}

// DeleteTrack removes a single audiotrack by ID.
func (r *SQLiteRepository) DeleteTrack(ctx context.Context, trackID int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM audiotracks WHERE track_id = ?", trackID)
	if err != nil {
		return fmt.Errorf("deleting audiotrack %d: %w", trackID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrTrackNotFound
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

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

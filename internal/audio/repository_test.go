package audio

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE audioboards (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			ip_address TEXT NOT NULL,
			api_port   INTEGER NOT NULL DEFAULT 8080,
			project_id INTEGER
		);

		CREATE TABLE audiotracks (
			track_id      INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			audio_path    TEXT NOT NULL,
			loop          INTEGER NOT NULL DEFAULT 0,
			random        INTEGER NOT NULL DEFAULT 0,
			audioboard_id TEXT NOT NULL REFERENCES audioboards(id) ON DELETE CASCADE,
			UNIQUE (name, audioboard_id)
		);

		INSERT INTO audioboards (id, name, ip_address, api_port) VALUES
			('audio-a', 'Cellar Player', '10.0.0.21', 8080),
			('audio-b', 'Garden Player', '10.0.0.22', 9000);

		INSERT INTO audiotracks (name, audio_path, loop, random, audioboard_id) VALUES
			('Rain', '/tracks/rain.wav', 1, 0, 'audio-a'),
			('Thunder', '/tracks/thunder.wav', 0, 1, 'audio-a'),
			('Birds', '/tracks/birds.wav', 1, 1, 'audio-b');
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestGetBoard(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	board, err := repo.GetBoard(context.Background(), "audio-b")
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if board.APIPort != 9000 {
		t.Errorf("api_port: got %d, want 9000", board.APIPort)
	}

	_, err = repo.GetBoard(context.Background(), "audio-nope")
	if !errors.Is(err, ErrBoardNotFound) {
		t.Errorf("expected ErrBoardNotFound, got %v", err)
	}
}

func TestBoardExists(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	exists, err := repo.BoardExists(context.Background(), "audio-a")
	if err != nil {
		t.Fatalf("BoardExists: %v", err)
	}
	if !exists {
		t.Error("audio-a should exist")
	}

	exists, err = repo.BoardExists(context.Background(), "audio-nope")
	if err != nil {
		t.Fatalf("BoardExists missing: %v", err)
	}
	if exists {
		t.Error("audio-nope should not exist")
	}
}

func TestCreateBoardDefaultPort(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	board := &Audioboard{ID: "audio-c", Name: "Attic Player", IPAddress: "10.0.0.23"}
	if err := repo.CreateBoard(context.Background(), board); err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}

	got, err := repo.GetBoard(context.Background(), "audio-c")
	if err != nil {
		t.Fatalf("GetBoard after create: %v", err)
	}
	if got.APIPort != 8080 {
		t.Errorf("default api_port: got %d, want 8080", got.APIPort)
	}
}

func TestCreateTrack(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	track := &Audiotrack{Name: "Wind", AudioPath: "/tracks/wind.wav", Loop: true, AudioboardID: "audio-a"}
	if err := repo.CreateTrack(context.Background(), track); err != nil {
		t.Fatalf("CreateTrack: %v", err)
	}
	if track.TrackID == 0 {
		t.Error("CreateTrack did not assign an ID")
	}
}

func TestCreateTrackDuplicateName(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	track := &Audiotrack{Name: "Rain", AudioPath: "/tracks/rain2.wav", AudioboardID: "audio-a"}
	err := repo.CreateTrack(context.Background(), track)
	if !errors.Is(err, ErrDuplicateTrack) {
		t.Errorf("expected ErrDuplicateTrack, got %v", err)
	}

	// Same name on a different board is fine.
	track2 := &Audiotrack{Name: "Rain", AudioPath: "/tracks/rain.wav", AudioboardID: "audio-b"}
	if err := repo.CreateTrack(context.Background(), track2); err != nil {
		t.Errorf("same name on other board: %v", err)
	}
}

func TestListTracksFilter(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	all, err := repo.ListTracks(context.Background(), "")
	if err != nil {
		t.Fatalf("ListTracks all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(all))
	}

	boardTracks, err := repo.ListTracks(context.Background(), "audio-a")
	if err != nil {
		t.Fatalf("ListTracks filtered: %v", err)
	}
	if len(boardTracks) != 2 {
		t.Fatalf("expected 2 tracks for audio-a, got %d", len(boardTracks))
	}
	for _, tr := range boardTracks {
		if tr.AudioboardID != "audio-a" {
			t.Errorf("track %s on wrong board: %s", tr.Name, tr.AudioboardID)
		}
	}
}

func TestUpdateTrack(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	tracks, err := repo.ListTracks(context.Background(), "audio-a")
	if err != nil {
		t.Fatalf("ListTracks: %v", err)
	}
	target := tracks[0]

	loop := false
	path := "/tracks/rain-v2.wav"
	err = repo.UpdateTrack(context.Background(), target.TrackID, TrackPatch{Loop: &loop, AudioPath: &path})
	if err != nil {
		t.Fatalf("UpdateTrack: %v", err)
	}

	got, err := repo.GetTrack(context.Background(), target.TrackID)
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if got.Loop {
		t.Error("loop should be false")
	}
	if got.AudioPath != "/tracks/rain-v2.wav" {
		t.Errorf("audio_path: got %q", got.AudioPath)
	}
	if got.Name != target.Name {
		t.Errorf("name changed unexpectedly: got %q", got.Name)
	}
}

func TestDeleteBoardCascadesTracks(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	if err := repo.DeleteBoard(context.Background(), "audio-a"); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}

	tracks, err := repo.ListTracks(context.Background(), "audio-a")
	if err != nil {
		t.Fatalf("ListTracks: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("expected 0 tracks after cascade, got %d", len(tracks))
	}
}

func TestDeleteTrackNotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	err := repo.DeleteTrack(context.Background(), 99999)
	if !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("expected ErrTrackNotFound, got %v", err)
	}
}

package switchboard

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the switchboards
// and switches tables plus a small fixture.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE switchboards (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			ip_address TEXT NOT NULL,
			project_id INTEGER
		);

		CREATE TABLE switches (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			name           TEXT NOT NULL,
			position       INTEGER NOT NULL,
			state          INTEGER NOT NULL DEFAULT 0,
			locked         INTEGER NOT NULL DEFAULT 0,
			switchboard_id TEXT NOT NULL REFERENCES switchboards(id) ON DELETE CASCADE,
			UNIQUE (switchboard_id, position)
		);

		INSERT INTO switchboards (id, name, ip_address) VALUES
			('board-a', 'Hallway Board', '10.0.0.11'),
			('board-b', 'Workshop Board', '10.0.0.12');

		INSERT INTO switches (name, position, state, locked, switchboard_id) VALUES
			('Hall Light', 1, 0, 0, 'board-a'),
			('Porch Light', 2, 1, 0, 'board-a'),
			('Bench Power', 1, 0, 1, 'board-b');
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

	board, err := repo.GetBoard(context.Background(), "board-a")
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if board.Name != "Hallway Board" {
		t.Errorf("board name: got %q, want %q", board.Name, "Hallway Board")
	}
	if board.IPAddress != "10.0.0.11" {
		t.Errorf("board ip: got %q, want %q", board.IPAddress, "10.0.0.11")
	}
	if board.ProjectID != nil {
		t.Errorf("board project_id: got %v, want nil", board.ProjectID)
	}
}

func TestGetBoardNotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	_, err := repo.GetBoard(context.Background(), "board-nope")
	if !errors.Is(err, ErrBoardNotFound) {
		t.Errorf("expected ErrBoardNotFound, got %v", err)
	}
}

func TestListBoards(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	boards, err := repo.ListBoards(context.Background())
	if err != nil {
		t.Fatalf("ListBoards: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(boards))
	}
	// Sorted by name
	if boards[0].ID != "board-a" || boards[1].ID != "board-b" {
		t.Errorf("board order: got %q, %q", boards[0].ID, boards[1].ID)
	}
}

func TestCreateBoard(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	board := &Switchboard{ID: "board-c", Name: "Attic Board", IPAddress: "10.0.0.13"}
	if err := repo.CreateBoard(context.Background(), board); err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}

	got, err := repo.GetBoard(context.Background(), "board-c")
	if err != nil {
		t.Fatalf("GetBoard after create: %v", err)
	}
	if got.Name != "Attic Board" {
		t.Errorf("created board name: got %q, want %q", got.Name, "Attic Board")
	}
}

func TestUpdateBoard(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	newIP := "10.0.0.99"
	err := repo.UpdateBoard(context.Background(), "board-a", BoardPatch{IPAddress: &newIP})
	if err != nil {
		t.Fatalf("UpdateBoard: %v", err)
	}

	got, err := repo.GetBoard(context.Background(), "board-a")
	if err != nil {
		t.Fatalf("GetBoard after update: %v", err)
	}
	if got.IPAddress != "10.0.0.99" {
		t.Errorf("updated ip: got %q, want %q", got.IPAddress, "10.0.0.99")
	}
	// Untouched field survives
	if got.Name != "Hallway Board" {
		t.Errorf("name changed unexpectedly: got %q", got.Name)
	}
}

func TestUpdateBoardEmptyPatch(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	if err := repo.UpdateBoard(context.Background(), "board-a", BoardPatch{}); err != nil {
		t.Errorf("empty patch on existing board: %v", err)
	}
	err := repo.UpdateBoard(context.Background(), "board-nope", BoardPatch{})
	if !errors.Is(err, ErrBoardNotFound) {
		t.Errorf("empty patch on missing board: got %v, want ErrBoardNotFound", err)
	}
}

func TestDeleteBoardCascades(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	if err := repo.DeleteBoard(context.Background(), "board-a"); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}

	switches, err := repo.ListSwitchesByBoard(context.Background(), "board-a")
	if err != nil {
		t.Fatalf("ListSwitchesByBoard: %v", err)
	}
	if len(switches) != 0 {
		t.Errorf("expected 0 switches after cascade, got %d", len(switches))
	}
}

func TestCreateSwitch(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	sw := &Switch{Name: "Attic Fan", Position: 3, SwitchboardID: "board-a"}
	if err := repo.CreateSwitch(context.Background(), sw); err != nil {
		t.Fatalf("CreateSwitch: %v", err)
	}
	if sw.ID == 0 {
		t.Error("CreateSwitch did not assign an ID")
	}

	got, err := repo.GetSwitch(context.Background(), sw.ID)
	if err != nil {
		t.Fatalf("GetSwitch after create: %v", err)
	}
	if got.Position != 3 {
		t.Errorf("created switch position: got %d, want 3", got.Position)
	}
}

func TestCreateSwitchDuplicatePosition(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	sw := &Switch{Name: "Clash", Position: 1, SwitchboardID: "board-a"}
	err := repo.CreateSwitch(context.Background(), sw)
	if !errors.Is(err, ErrDuplicatePosition) {
		t.Errorf("expected ErrDuplicatePosition, got %v", err)
	}

	// Same position on a different board is fine.
	sw2 := &Switch{Name: "No Clash", Position: 2, SwitchboardID: "board-b"}
	if err := repo.CreateSwitch(context.Background(), sw2); err != nil {
		t.Errorf("same position on other board: %v", err)
	}
}

func TestGetSwitchByBoardAndPosition(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	sw, err := repo.GetSwitchByBoardAndPosition(context.Background(), "board-a", 2)
	if err != nil {
		t.Fatalf("GetSwitchByBoardAndPosition: %v", err)
	}
	if sw.Name != "Porch Light" {
		t.Errorf("switch name: got %q, want %q", sw.Name, "Porch Light")
	}

	_, err = repo.GetSwitchByBoardAndPosition(context.Background(), "board-a", 8)
	if !errors.Is(err, ErrSwitchNotFound) {
		t.Errorf("empty position: got %v, want ErrSwitchNotFound", err)
	}
}

func TestListSwitchesByBoard(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	switches, err := repo.ListSwitchesByBoard(context.Background(), "board-a")
	if err != nil {
		t.Fatalf("ListSwitchesByBoard: %v", err)
	}
	if len(switches) != 2 {
		t.Fatalf("expected 2 switches, got %d", len(switches))
	}
	// Sorted by position
	if switches[0].Position != 1 || switches[1].Position != 2 {
		t.Errorf("switch order: got positions %d, %d", switches[0].Position, switches[1].Position)
	}
	if !switches[1].State {
		t.Error("porch light state should be on")
	}
}

func TestSetState(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	sw, err := repo.GetSwitchByBoardAndPosition(context.Background(), "board-a", 1)
	if err != nil {
		t.Fatalf("GetSwitchByBoardAndPosition: %v", err)
	}

	if err := repo.SetState(context.Background(), sw.ID, true); err != nil {
		t.Fatalf("SetState: %v", err)
	}

	got, err := repo.GetSwitch(context.Background(), sw.ID)
	if err != nil {
		t.Fatalf("GetSwitch: %v", err)
	}
	if !got.State {
		t.Error("state should be on after SetState(true)")
	}
}

func TestSetStateIgnoresLock(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	// board-b position 1 is locked; SetState still writes.
	sw, err := repo.GetSwitchByBoardAndPosition(context.Background(), "board-b", 1)
	if err != nil {
		t.Fatalf("GetSwitchByBoardAndPosition: %v", err)
	}
	if !sw.Locked {
		t.Fatal("fixture switch should be locked")
	}

	if err := repo.SetState(context.Background(), sw.ID, true); err != nil {
		t.Fatalf("SetState on locked switch: %v", err)
	}
	got, _ := repo.GetSwitch(context.Background(), sw.ID)
	if !got.State {
		t.Error("state should be written regardless of lock flag")
	}
}

func TestSetLocked(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	sw, err := repo.GetSwitchByBoardAndPosition(context.Background(), "board-a", 1)
	if err != nil {
		t.Fatalf("GetSwitchByBoardAndPosition: %v", err)
	}

	if err := repo.SetLocked(context.Background(), sw.ID, true); err != nil {
		t.Fatalf("SetLocked: %v", err)
	}
	got, _ := repo.GetSwitch(context.Background(), sw.ID)
	if !got.Locked {
		t.Error("switch should be locked")
	}

	if err := repo.SetLocked(context.Background(), sw.ID, false); err != nil {
		t.Fatalf("SetLocked(false): %v", err)
	}
	got, _ = repo.GetSwitch(context.Background(), sw.ID)
	if got.Locked {
		t.Error("switch should be unlocked")
	}
}

func TestUpdateSwitchPatch(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	sw, err := repo.GetSwitchByBoardAndPosition(context.Background(), "board-a", 1)
	if err != nil {
		t.Fatalf("GetSwitchByBoardAndPosition: %v", err)
	}

	name := "Renamed"
	locked := true
	err = repo.UpdateSwitch(context.Background(), sw.ID, SwitchPatch{Name: &name, Locked: &locked})
	if err != nil {
		t.Fatalf("UpdateSwitch: %v", err)
	}

	got, err := repo.GetSwitch(context.Background(), sw.ID)
	if err != nil {
		t.Fatalf("GetSwitch: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("name: got %q, want %q", got.Name, "Renamed")
	}
	if !got.Locked {
		t.Error("locked should be true")
	}
	// Untouched fields survive
	if got.Position != 1 {
		t.Errorf("position changed unexpectedly: got %d", got.Position)
	}
}

func TestUpdateSwitchPositionClash(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	sw, err := repo.GetSwitchByBoardAndPosition(context.Background(), "board-a", 1)
	if err != nil {
		t.Fatalf("GetSwitchByBoardAndPosition: %v", err)
	}

	pos := 2
	err = repo.UpdateSwitch(context.Background(), sw.ID, SwitchPatch{Position: &pos})
	if !errors.Is(err, ErrDuplicatePosition) {
		t.Errorf("expected ErrDuplicatePosition, got %v", err)
	}
}

func TestDeleteSwitch(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	sw, err := repo.GetSwitchByBoardAndPosition(context.Background(), "board-a", 1)
	if err != nil {
		t.Fatalf("GetSwitchByBoardAndPosition: %v", err)
	}

	if err := repo.DeleteSwitch(context.Background(), sw.ID); err != nil {
		t.Fatalf("DeleteSwitch: %v", err)
	}
	_, err = repo.GetSwitch(context.Background(), sw.ID)
	if !errors.Is(err, ErrSwitchNotFound) {
		t.Errorf("expected ErrSwitchNotFound after delete, got %v", err)
	}

	err = repo.DeleteSwitch(context.Background(), 99999)
	if !errors.Is(err, ErrSwitchNotFound) {
		t.Errorf("delete missing switch: got %v, want ErrSwitchNotFound", err)
	}
}

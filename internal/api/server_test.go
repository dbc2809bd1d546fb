package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rhapsody24/rhapsody-core/internal/audio"
	"github.com/rhapsody24/rhapsody-core/internal/color"
	"github.com/rhapsody24/rhapsody-core/internal/infrastructure/config"
	"github.com/rhapsody24/rhapsody-core/internal/infrastructure/logging"
	"github.com/rhapsody24/rhapsody-core/internal/project"
	"github.com/rhapsody24/rhapsody-core/internal/sensor"
	"github.com/rhapsody24/rhapsody-core/internal/switchboard"
	"github.com/rhapsody24/rhapsody-core/internal/toggle"
)

// testServer creates a Server backed by in-memory SQLite with the full schema.
func testServer(t *testing.T) (*Server, *sql.DB) {
	t.Helper()

	db := setupTestDB(t)

	boardRepo := switchboard.NewSQLiteRepository(db)
	toggleSvc := toggle.NewService(boardRepo, boardRepo, 2*time.Second)

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	srv, err := New(Deps{
		Config: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.ServerTimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		Logger:      log,
		ProjectRepo: project.NewSQLiteRepository(db),
		BoardRepo:   boardRepo,
		AudioRepo:   audio.NewSQLiteRepository(db),
		SensorRepo:  sensor.NewSQLiteRepository(db),
		ColorRepo:   color.NewSQLiteRepository(db),
		Toggle:      toggleSvc,
		Player:      audio.NewPlayer(2 * time.Second),
		Reader:      sensor.NewReader(2*time.Second, nil),
		Version:     "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	return srv, db
}

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE projects (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			activated   INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE switchboards (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			ip_address TEXT NOT NULL,
			project_id INTEGER REFERENCES projects(id) ON DELETE SET NULL
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

		CREATE TABLE audioboards (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			ip_address TEXT NOT NULL,
			api_port   INTEGER NOT NULL DEFAULT 8080,
			project_id INTEGER REFERENCES projects(id) ON DELETE SET NULL
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

		CREATE TABLE dht_sensors (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			ip_address TEXT NOT NULL,
			project_id INTEGER REFERENCES projects(id) ON DELETE SET NULL
		);

		CREATE TABLE colors (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			red_value   INTEGER NOT NULL,
			green_value INTEGER NOT NULL,
			blue_value  INTEGER NOT NULL,
			white_value INTEGER
		);
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

// doRequest runs a request through the server's router and returns the recorder.
func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(rec, req)
	return rec
}

// decodeBody decodes a JSON response body into a map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "test" {
		t.Errorf("version = %v, want test", body["version"])
	}
}

func TestHealthSetsRequestID(t *testing.T) {
	srv, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/health", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestProjectLifecycle(t *testing.T) {
	srv, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/projects", map[string]any{
		"name":        "Spring Exhibit",
		"description": "March installation",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	id := int64(created["id"].(float64))
	if id == 0 {
		t.Fatal("created project has no id")
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/projects/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPatch, "/api/v1/projects/1", map[string]any{
		"activated": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want 200", rec.Code)
	}
	updated := decodeBody(t, rec)
	if updated["activated"] != true {
		t.Errorf("activated = %v after patch, want true", updated["activated"])
	}
	if updated["name"] != "Spring Exhibit" {
		t.Errorf("name = %v after patch, want unchanged", updated["name"])
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/projects/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/projects/1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateProjectRequiresName(t *testing.T) {
	srv, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/projects", map[string]any{
		"description": "nameless",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetProjectInvalidID(t *testing.T) {
	srv, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/projects/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestColorChannelValidation(t *testing.T) {
	srv, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/colors", map[string]any{
		"name":        "Too Red",
		"red_value":   300,
		"green_value": 0,
		"blue_value":  0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/colors", map[string]any{
		"name":        "Amber",
		"red_value":   255,
		"green_value": 150,
		"blue_value":  0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	if _, hasWhite := created["white_value"]; hasWhite {
		t.Error("white_value present for color without a white channel")
	}
}

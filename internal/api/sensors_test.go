package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newFakeSensor starts a fake DHT sensor and registers it in the database.
func newFakeSensor(t *testing.T, db *sql.DB, sensorID string, handler http.Handler) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	addr := strings.TrimPrefix(ts.URL, "http://")
	if _, err := db.Exec(
		`INSERT INTO dht_sensors (id, name, ip_address) VALUES (?, ?, ?)`,
		sensorID, "Greenhouse Sensor", addr,
	); err != nil {
		t.Fatalf("insert sensor: %v", err)
	}
}

func TestSensorValues(t *testing.T) {
	srv, db := testServer(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/infos" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck // test server write
		w.Write([]byte(`{"temperature_c": 21.5, "temperature_f": 70.7, "humidity": 48.0}`))
	})
	newFakeSensor(t, db, "dht-a", handler)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/sensors/dht-a/values", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["temperature_c"] != 21.5 {
		t.Errorf("temperature_c = %v, want 21.5", body["temperature_c"])
	}
	if body["humidity"] != 48.0 {
		t.Errorf("humidity = %v, want 48.0", body["humidity"])
	}
	if body["name"] != "Greenhouse Sensor" {
		t.Errorf("name = %v, want stored metadata merged in", body["name"])
	}
}

func TestSensorValuesUnreachable(t *testing.T) {
	srv, db := testServer(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	newFakeSensor(t, db, "dht-a", handler)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/sensors/dht-a/values", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestSensorValuesUnknownSensor(t *testing.T) {
	srv, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/sensors/unknown/values", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSensorLifecycle(t *testing.T) {
	srv, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/sensors", map[string]any{
		"id":         "dht-new",
		"name":       "Lobby Sensor",
		"ip_address": "10.0.0.40",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPatch, "/api/v1/sensors/dht-new", map[string]any{
		"name": "Entrance Sensor",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["name"] != "Entrance Sensor" {
		t.Errorf("name = %v after patch, want Entrance Sensor", body["name"])
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/sensors/dht-new", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/sensors/dht-new", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

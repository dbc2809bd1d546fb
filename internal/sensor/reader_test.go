package sensor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeRecorder struct {
	sensorID string
	tempC    float64
	humidity float64
	calls    int
}

func (f *fakeRecorder) WriteSensorReading(sensorID string, temperatureC, temperatureF, humidity float64) {
	f.sensorID = sensorID
	f.tempC = temperatureC
	f.humidity = humidity
	f.calls++
}

func TestRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/infos" {
			t.Errorf("path: got %q, want /infos", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"temperature_c": 21.5, "temperature_f": 70.7, "humidity": 48.2}`))
	}))
	defer srv.Close()

	recorder := &fakeRecorder{}
	reader := NewReader(time.Second, recorder)
	s := &DHT{
		ID:        "dht-cellar",
		Name:      "Cellar Sensor",
		IPAddress: strings.TrimPrefix(srv.URL, "http://"),
	}

	values, err := reader.Read(context.Background(), s)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if values.Name != "Cellar Sensor" {
		t.Errorf("name: got %q, want %q", values.Name, "Cellar Sensor")
	}
	if values.TemperatureC != 21.5 {
		t.Errorf("temperature_c: got %v, want 21.5", values.TemperatureC)
	}
	if values.Humidity != 48.2 {
		t.Errorf("humidity: got %v, want 48.2", values.Humidity)
	}

	if recorder.calls != 1 {
		t.Fatalf("recorder calls: got %d, want 1", recorder.calls)
	}
	if recorder.sensorID != "dht-cellar" || recorder.tempC != 21.5 {
		t.Errorf("recorded reading: %+v", recorder)
	}
}

func TestReadNilRecorder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"temperature_c": 20, "temperature_f": 68, "humidity": 50}`))
	}))
	defer srv.Close()

	reader := NewReader(time.Second, nil)
	s := &DHT{ID: "dht-x", IPAddress: strings.TrimPrefix(srv.URL, "http://")}

	if _, err := reader.Read(context.Background(), s); err != nil {
		t.Fatalf("Read with nil recorder: %v", err)
	}
}

func TestReadUnreachable(t *testing.T) {
	reader := NewReader(100*time.Millisecond, nil)
	s := &DHT{ID: "dht-x", IPAddress: "127.0.0.1:1"}

	_, err := reader.Read(context.Background(), s)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

func TestReadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	recorder := &fakeRecorder{}
	reader := NewReader(time.Second, recorder)
	s := &DHT{ID: "dht-x", IPAddress: strings.TrimPrefix(srv.URL, "http://")}

	_, err := reader.Read(context.Background(), s)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
	if recorder.calls != 0 {
		t.Errorf("failed read should not be recorded, got %d calls", recorder.calls)
	}
}

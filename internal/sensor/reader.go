package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Recorder receives live readings for telemetry storage.
// Satisfied by the InfluxDB client; a nil Recorder disables recording.
type Recorder interface {
	WriteSensorReading(sensorID string, temperatureC, temperatureF, humidity float64)
}

// Reader fetches live values from a sensor's HTTP endpoint.
//
// DHT sensors expose a GET /infos endpoint returning the current
// temperature (Celsius and Fahrenheit) and relative humidity as JSON.
type Reader struct {
	httpClient *http.Client
	recorder   Recorder
}

// NewReader creates a Reader with the given per-request timeout.
// recorder may be nil when telemetry is disabled.
func NewReader(timeout time.Duration, recorder Recorder) *Reader {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Reader{
		httpClient: &http.Client{Timeout: timeout},
		recorder:   recorder,
	}
}

// infosResponse is the wire form of the sensor's /infos endpoint.
type infosResponse struct {
	TemperatureC float64 `json:"temperature_c"`
	TemperatureF float64 `json:"temperature_f"`
	Humidity     float64 `json:"humidity"`
}

// Read fetches the sensor's live values, merges them with its stored
// metadata and records the reading when a Recorder is configured.
func (r *Reader) Read(ctx context.Context, s *DHT) (*Values, error) {
	url := fmt.Sprintf("http://%s/infos", s.IPAddress)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building sensor request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: sensor %s returned HTTP %d", ErrUnreachable, s.ID, resp.StatusCode)
	}

	var infos infosResponse
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnreachable, err)
	}

	if r.recorder != nil {
		r.recorder.WriteSensorReading(s.ID, infos.TemperatureC, infos.TemperatureF, infos.Humidity)
	}

	return &Values{
		Name:         s.Name,
		IPAddress:    s.IPAddress,
		TemperatureC: infos.TemperatureC,
		TemperatureF: infos.TemperatureF,
		Humidity:     infos.Humidity,
	}, nil
}

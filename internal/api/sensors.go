package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rhapsody24/rhapsody-core/internal/sensor"
)

// handleListSensors returns all DHT sensors.
func (s *Server) handleListSensors(w http.ResponseWriter, r *http.Request) {
	sensors, err := s.sensorRepo.List(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list sensors")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sensors": sensors, "count": len(sensors)})
}

// handleCreateSensor registers a new DHT sensor.
func (s *Server) handleCreateSensor(w http.ResponseWriter, r *http.Request) {
	var dht sensor.DHT
	if err := json.NewDecoder(r.Body).Decode(&dht); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if dht.ID == "" || dht.IPAddress == "" {
		writeBadRequest(w, "id and ip_address are required")
		return
	}

	if err := s.sensorRepo.Create(r.Context(), &dht); err != nil {
		writeInternalError(w, "failed to create sensor")
		return
	}
	writeJSON(w, http.StatusCreated, dht)
}

// handleGetSensor returns a single sensor by ID.
func (s *Server) handleGetSensor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dht, err := s.sensorRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sensor.ErrNotFound) {
			writeNotFound(w, "sensor not found")
			return
		}
		writeInternalError(w, "failed to get sensor")
		return
	}
	writeJSON(w, http.StatusOK, dht)
}

// handleUpdateSensor partially updates a sensor.
func (s *Server) handleUpdateSensor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch sensor.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.sensorRepo.Update(r.Context(), id, patch); err != nil {
		if errors.Is(err, sensor.ErrNotFound) {
			writeNotFound(w, "sensor not found")
			return
		}
		writeInternalError(w, "failed to update sensor")
		return
	}

	dht, err := s.sensorRepo.Get(r.Context(), id)
	if err != nil {
		writeInternalError(w, "failed to get sensor")
		return
	}
	writeJSON(w, http.StatusOK, dht)
}

// handleDeleteSensor deletes a sensor.
func (s *Server) handleDeleteSensor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.sensorRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sensor.ErrNotFound) {
			writeNotFound(w, "sensor not found")
			return
		}
		writeInternalError(w, "failed to delete sensor")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// handleGetSensorValues proxies a live reading from the sensor.
func (s *Server) handleGetSensorValues(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dht, err := s.sensorRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sensor.ErrNotFound) {
			writeNotFound(w, "sensor not found")
			return
		}
		writeInternalError(w, "failed to get sensor")
		return
	}

	values, err := s.reader.Read(r.Context(), dht)
	if err != nil {
		s.logger.Warn("sensor read failed", "sensor_id", id, "error", err)
		writeUpstreamError(w, "sensor did not respond")
		return
	}
	writeJSON(w, http.StatusOK, values)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rhapsody24/rhapsody-core/internal/color"
)

// handleListColors returns all color presets.
func (s *Server) handleListColors(w http.ResponseWriter, r *http.Request) {
	colors, err := s.colorRepo.List(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list colors")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"colors": colors, "count": len(colors)})
}

// handleCreateColor creates a new color preset.
func (s *Server) handleCreateColor(w http.ResponseWriter, r *http.Request) {
	var c color.Color
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if c.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	if !validChannel(c.Red) || !validChannel(c.Green) || !validChannel(c.Blue) {
		writeBadRequest(w, "channel values must be between 0 and 255")
		return
	}
	if c.White != nil && !validChannel(*c.White) {
		writeBadRequest(w, "channel values must be between 0 and 255")
		return
	}

	if err := s.colorRepo.Create(r.Context(), &c); err != nil {
		writeInternalError(w, "failed to create color")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// handleGetColor returns a single color preset by ID.
func (s *Server) handleGetColor(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid color id")
		return
	}

	c, err := s.colorRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, color.ErrNotFound) {
			writeNotFound(w, "color not found")
			return
		}
		writeInternalError(w, "failed to get color")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleUpdateColor partially updates a color preset.
func (s *Server) handleUpdateColor(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid color id")
		return
	}

	var patch color.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	for _, ch := range []*int{patch.Red, patch.Green, patch.Blue, patch.White} {
		if ch != nil && !validChannel(*ch) {
			writeBadRequest(w, "channel values must be between 0 and 255")
			return
		}
	}

	if err := s.colorRepo.Update(r.Context(), id, patch); err != nil {
		if errors.Is(err, color.ErrNotFound) {
			writeNotFound(w, "color not found")
			return
		}
		writeInternalError(w, "failed to update color")
		return
	}

	c, err := s.colorRepo.Get(r.Context(), id)
	if err != nil {
		writeInternalError(w, "failed to get color")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleDeleteColor deletes a color preset.
func (s *Server) handleDeleteColor(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid color id")
		return
	}

	if err := s.colorRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, color.ErrNotFound) {
			writeNotFound(w, "color not found")
			return
		}
		writeInternalError(w, "failed to delete color")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// validChannel reports whether a channel value fits in 0-255.
func validChannel(v int) bool {
	return v >= 0 && v <= 255
}

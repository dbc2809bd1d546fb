package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rhapsody24/rhapsody-core/internal/switchboard"
	"github.com/rhapsody24/rhapsody-core/internal/toggle"
)

// handleListSwitches returns all switches, with optional switchboard_id filter.
func (s *Server) handleListSwitches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if boardID := r.URL.Query().Get("switchboard_id"); boardID != "" {
		switches, err := s.boardRepo.ListSwitchesByBoard(ctx, boardID)
		if err != nil {
			writeInternalError(w, "failed to list switches")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"switches": switches, "count": len(switches)})
		return
	}

	switches, err := s.boardRepo.ListSwitches(ctx)
	if err != nil {
		writeInternalError(w, "failed to list switches")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"switches": switches, "count": len(switches)})
}

// handleCreateSwitch creates a new switch on a switchboard.
func (s *Server) handleCreateSwitch(w http.ResponseWriter, r *http.Request) {
	var sw switchboard.Switch
	if err := json.NewDecoder(r.Body).Decode(&sw); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if sw.SwitchboardID == "" {
		writeBadRequest(w, "switchboard_id is required")
		return
	}
	if sw.Position < 1 || sw.Position > 8 {
		writeBadRequest(w, "position must be between 1 and 8")
		return
	}

	if _, err := s.boardRepo.GetBoard(r.Context(), sw.SwitchboardID); err != nil {
		if errors.Is(err, switchboard.ErrBoardNotFound) {
			writeNotFound(w, "switchboard not found")
			return
		}
		writeInternalError(w, "failed to get switchboard")
		return
	}

	if err := s.boardRepo.CreateSwitch(r.Context(), &sw); err != nil {
		if errors.Is(err, switchboard.ErrDuplicatePosition) {
			writeConflict(w, "position already in use on this switchboard")
			return
		}
		writeInternalError(w, "failed to create switch")
		return
	}
	writeJSON(w, http.StatusCreated, sw)
}

// handleGetSwitch returns a single switch by ID.
func (s *Server) handleGetSwitch(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid switch id")
		return
	}

	sw, err := s.boardRepo.GetSwitch(r.Context(), id)
	if err != nil {
		if errors.Is(err, switchboard.ErrSwitchNotFound) {
			writeNotFound(w, "switch not found")
			return
		}
		writeInternalError(w, "failed to get switch")
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

// handleUpdateSwitch partially updates a switch.
func (s *Server) handleUpdateSwitch(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid switch id")
		return
	}

	var patch switchboard.SwitchPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if patch.Position != nil && (*patch.Position < 1 || *patch.Position > 8) {
		writeBadRequest(w, "position must be between 1 and 8")
		return
	}

	if err := s.boardRepo.UpdateSwitch(r.Context(), id, patch); err != nil {
		if errors.Is(err, switchboard.ErrSwitchNotFound) {
			writeNotFound(w, "switch not found")
			return
		}
		if errors.Is(err, switchboard.ErrDuplicatePosition) {
			writeConflict(w, "position already in use on this switchboard")
			return
		}
		writeInternalError(w, "failed to update switch")
		return
	}

	sw, err := s.boardRepo.GetSwitch(r.Context(), id)
	if err != nil {
		writeInternalError(w, "failed to get switch")
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

// handleDeleteSwitch deletes a switch.
func (s *Server) handleDeleteSwitch(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid switch id")
		return
	}

	if err := s.boardRepo.DeleteSwitch(r.Context(), id); err != nil {
		if errors.Is(err, switchboard.ErrSwitchNotFound) {
			writeNotFound(w, "switch not found")
			return
		}
		writeInternalError(w, "failed to delete switch")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// toggleRequest is the batch toggle request body. Keys are switch IDs as
// decimal strings, values are the desired states.
type toggleRequest struct {
	Switches map[string]bool `json:"switches"`
}

// handleToggleSwitches runs a batch toggle across switchboards.
//
// The response always carries HTTP 200 with a per-batch report; partial
// failure is reported in the body, not the status code, so the caller can
// decide how to escalate.
func (s *Server) handleToggleSwitches(w http.ResponseWriter, r *http.Request) {
	var body toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(body.Switches) == 0 {
		writeBadRequest(w, "switches map is required")
		return
	}

	req := make(toggle.Request, len(body.Switches))
	for key, state := range body.Switches {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			writeBadRequest(w, fmt.Sprintf("invalid switch id %q", key))
			return
		}
		req[id] = state
	}

	report := s.toggle.Toggle(r.Context(), req)
	writeJSON(w, http.StatusOK, report)
}

// lockRequest is the batch lock request body. Keys are switch IDs as decimal
// strings, values are the desired locked flags.
type lockRequest struct {
	Switches map[string]bool `json:"switches"`
}

// handleLockSwitches locks or unlocks a batch of switches.
//
// Shaped like the toggle report: 200 with per-switch errors collected in
// the body.
func (s *Server) handleLockSwitches(w http.ResponseWriter, r *http.Request) {
	var body lockRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(body.Switches) == 0 {
		writeBadRequest(w, "switches map is required")
		return
	}

	var errs []string
	for key, locked := range body.Switches {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			writeBadRequest(w, fmt.Sprintf("invalid switch id %q", key))
			return
		}
		if err := s.boardRepo.SetLocked(r.Context(), id, locked); err != nil {
			if errors.Is(err, switchboard.ErrSwitchNotFound) {
				errs = append(errs, fmt.Sprintf("Switch with id %d not found", id))
				continue
			}
			errs = append(errs, fmt.Sprintf("failed to update lock on switch %d", id))
		}
	}
	if errs == nil {
		errs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"error_count": len(errs), "errors": errs})
}

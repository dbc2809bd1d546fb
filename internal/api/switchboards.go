package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rhapsody24/rhapsody-core/internal/switchboard"
	"github.com/rhapsody24/rhapsody-core/internal/toggle"
)

// handleListSwitchboards returns all switchboards.
func (s *Server) handleListSwitchboards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.boardRepo.ListBoards(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list switchboards")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"switchboards": boards, "count": len(boards)})
}

// handleCreateSwitchboard registers a new switchboard.
func (s *Server) handleCreateSwitchboard(w http.ResponseWriter, r *http.Request) {
	var board switchboard.Switchboard
	if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if board.ID == "" || board.IPAddress == "" {
		writeBadRequest(w, "id and ip_address are required")
		return
	}

	if err := s.boardRepo.CreateBoard(r.Context(), &board); err != nil {
		writeInternalError(w, "failed to create switchboard")
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

// handleGetSwitchboard returns a single switchboard by ID.
func (s *Server) handleGetSwitchboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	board, err := s.boardRepo.GetBoard(r.Context(), id)
	if err != nil {
		if errors.Is(err, switchboard.ErrBoardNotFound) {
			writeNotFound(w, "switchboard not found")
			return
		}
		writeInternalError(w, "failed to get switchboard")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handleUpdateSwitchboard partially updates a switchboard.
func (s *Server) handleUpdateSwitchboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch switchboard.BoardPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.boardRepo.UpdateBoard(r.Context(), id, patch); err != nil {
		if errors.Is(err, switchboard.ErrBoardNotFound) {
			writeNotFound(w, "switchboard not found")
			return
		}
		writeInternalError(w, "failed to update switchboard")
		return
	}

	board, err := s.boardRepo.GetBoard(r.Context(), id)
	if err != nil {
		writeInternalError(w, "failed to get switchboard")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handleDeleteSwitchboard removes a switchboard and its switches.
func (s *Server) handleDeleteSwitchboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.boardRepo.DeleteBoard(r.Context(), id); err != nil {
		if errors.Is(err, switchboard.ErrBoardNotFound) {
			writeNotFound(w, "switchboard not found")
			return
		}
		writeInternalError(w, "failed to delete switchboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// handleListBoardSwitches returns the switches attached to one switchboard.
func (s *Server) handleListBoardSwitches(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.boardRepo.GetBoard(r.Context(), id); err != nil {
		if errors.Is(err, switchboard.ErrBoardNotFound) {
			writeNotFound(w, "switchboard not found")
			return
		}
		writeInternalError(w, "failed to get switchboard")
		return
	}

	switches, err := s.boardRepo.ListSwitchesByBoard(r.Context(), id)
	if err != nil {
		writeInternalError(w, "failed to list switches")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"switches": switches, "count": len(switches)})
}

// handleGetBoardStates returns a relay-nickname to ON/OFF snapshot for one
// switchboard, in the shape the relay firmware expects on its control endpoint.
func (s *Server) handleGetBoardStates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.boardRepo.GetBoard(r.Context(), id); err != nil {
		if errors.Is(err, switchboard.ErrBoardNotFound) {
			writeNotFound(w, "switchboard not found")
			return
		}
		writeInternalError(w, "failed to get switchboard")
		return
	}

	switches, err := s.boardRepo.ListSwitchesByBoard(r.Context(), id)
	if err != nil {
		writeInternalError(w, "failed to list switches")
		return
	}

	states := make(map[string]string, len(switches))
	for _, sw := range switches {
		nickname, err := toggle.NicknameForPosition(sw.Position)
		if err != nil {
			continue
		}
		if sw.State {
			states[nickname] = "ON"
		} else {
			states[nickname] = "OFF"
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"switchboard_id": id, "states": states})
}

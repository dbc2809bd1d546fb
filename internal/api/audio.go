package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rhapsody24/rhapsody-core/internal/audio"
)

// handleListAudioboards returns all audioboards.
func (s *Server) handleListAudioboards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.audioRepo.ListBoards(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list audioboards")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"audioboards": boards, "count": len(boards)})
}

// handleCreateAudioboard registers a new audioboard.
func (s *Server) handleCreateAudioboard(w http.ResponseWriter, r *http.Request) {
	var board audio.Audioboard
	if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if board.ID == "" || board.IPAddress == "" {
		writeBadRequest(w, "id and ip_address are required")
		return
	}

	if err := s.audioRepo.CreateBoard(r.Context(), &board); err != nil {
		writeInternalError(w, "failed to create audioboard")
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

// handleGetAudioboard returns a single audioboard by ID.
func (s *Server) handleGetAudioboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	board, err := s.audioRepo.GetBoard(r.Context(), id)
	if err != nil {
		if errors.Is(err, audio.ErrBoardNotFound) {
			writeNotFound(w, "audioboard not found")
			return
		}
		writeInternalError(w, "failed to get audioboard")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handleUpdateAudioboard partially updates an audioboard.
func (s *Server) handleUpdateAudioboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch audio.BoardPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.audioRepo.UpdateBoard(r.Context(), id, patch); err != nil {
		if errors.Is(err, audio.ErrBoardNotFound) {
			writeNotFound(w, "audioboard not found")
			return
		}
		writeInternalError(w, "failed to update audioboard")
		return
	}

	board, err := s.audioRepo.GetBoard(r.Context(), id)
	if err != nil {
		writeInternalError(w, "failed to get audioboard")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handleDeleteAudioboard removes an audioboard and its tracks.
func (s *Server) handleDeleteAudioboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.audioRepo.DeleteBoard(r.Context(), id); err != nil {
		if errors.Is(err, audio.ErrBoardNotFound) {
			writeNotFound(w, "audioboard not found")
			return
		}
		writeInternalError(w, "failed to delete audioboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// handleAudioboardRegistered reports whether a board ID is registered.
// Boards poll this on boot to decide whether to announce themselves.
func (s *Server) handleAudioboardRegistered(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	exists, err := s.audioRepo.BoardExists(r.Context(), id)
	if err != nil {
		writeInternalError(w, "failed to check audioboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exists": exists})
}

// handleListAudiotracks returns all audiotracks, with optional audioboard_id filter.
func (s *Server) handleListAudiotracks(w http.ResponseWriter, r *http.Request) {
	audioboardID := r.URL.Query().Get("audioboard_id")

	tracks, err := s.audioRepo.ListTracks(r.Context(), audioboardID)
	if err != nil {
		writeInternalError(w, "failed to list audiotracks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"audiotracks": tracks, "count": len(tracks)})
}

// handleCreateAudiotrack creates a track and registers it on the board's
// player API. If the board cannot be reached the track is not saved, so the
// database and the board never disagree about which tracks exist.
func (s *Server) handleCreateAudiotrack(w http.ResponseWriter, r *http.Request) {
	var track audio.Audiotrack
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if track.Name == "" || track.AudioPath == "" || track.AudioboardID == "" {
		writeBadRequest(w, "name, audio_path and audioboard_id are required")
		return
	}

	board, err := s.audioRepo.GetBoard(r.Context(), track.AudioboardID)
	if err != nil {
		if errors.Is(err, audio.ErrBoardNotFound) {
			writeNotFound(w, "audioboard not found")
			return
		}
		writeInternalError(w, "failed to get audioboard")
		return
	}

	if err := s.audioRepo.CreateTrack(r.Context(), &track); err != nil {
		if errors.Is(err, audio.ErrDuplicateTrack) {
			writeConflict(w, "track name already in use on this audioboard")
			return
		}
		writeInternalError(w, "failed to create audiotrack")
		return
	}

	if err := s.player.RegisterTrack(r.Context(), board, &track); err != nil {
		// Roll back so the board stays the source of truth for registration.
		if delErr := s.audioRepo.DeleteTrack(r.Context(), track.TrackID); delErr != nil {
			s.logger.Error("failed to roll back audiotrack after register failure",
				"track_id", track.TrackID, "error", delErr)
		}
		s.logger.Warn("audioboard rejected track registration",
			"audioboard_id", board.ID, "track", track.Name, "error", err)
		writeUpstreamError(w, "audioboard did not accept the track")
		return
	}

	writeJSON(w, http.StatusCreated, track)
}

// handleGetAudiotrack returns a single audiotrack by ID.
func (s *Server) handleGetAudiotrack(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid audiotrack id")
		return
	}

	track, err := s.audioRepo.GetTrack(r.Context(), id)
	if err != nil {
		if errors.Is(err, audio.ErrTrackNotFound) {
			writeNotFound(w, "audiotrack not found")
			return
		}
		writeInternalError(w, "failed to get audiotrack")
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// handleUpdateAudiotrack partially updates a track and pushes the new
// settings to the board. The push is best-effort: the database copy is
// authoritative and is re-sent when the board reboots.
func (s *Server) handleUpdateAudiotrack(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid audiotrack id")
		return
	}

	var patch audio.TrackPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.audioRepo.UpdateTrack(r.Context(), id, patch); err != nil {
		if errors.Is(err, audio.ErrTrackNotFound) {
			writeNotFound(w, "audiotrack not found")
			return
		}
		if errors.Is(err, audio.ErrDuplicateTrack) {
			writeConflict(w, "track name already in use on this audioboard")
			return
		}
		writeInternalError(w, "failed to update audiotrack")
		return
	}

	track, err := s.audioRepo.GetTrack(r.Context(), id)
	if err != nil {
		writeInternalError(w, "failed to get audiotrack")
		return
	}

	if board, err := s.audioRepo.GetBoard(r.Context(), track.AudioboardID); err == nil {
		if err := s.player.PushSettings(r.Context(), board, track); err != nil {
			s.logger.Warn("failed to push track settings to audioboard",
				"audioboard_id", board.ID, "track_id", track.TrackID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, track)
}

// handleDeleteAudiotrack deletes an audiotrack.
func (s *Server) handleDeleteAudiotrack(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid audiotrack id")
		return
	}

	if err := s.audioRepo.DeleteTrack(r.Context(), id); err != nil {
		if errors.Is(err, audio.ErrTrackNotFound) {
			writeNotFound(w, "audiotrack not found")
			return
		}
		writeInternalError(w, "failed to delete audiotrack")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// handleControlAudiotrack sends a playback action to the board owning the
// track and relays the board's response.
func (s *Server) handleControlAudiotrack(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid audiotrack id")
		return
	}

	action := r.URL.Query().Get("action")
	if !audio.ValidAction(action) {
		writeBadRequest(w, "action must be one of play, pause, resume, stop")
		return
	}

	track, err := s.audioRepo.GetTrack(r.Context(), id)
	if err != nil {
		if errors.Is(err, audio.ErrTrackNotFound) {
			writeNotFound(w, "audiotrack not found")
			return
		}
		writeInternalError(w, "failed to get audiotrack")
		return
	}

	board, err := s.audioRepo.GetBoard(r.Context(), track.AudioboardID)
	if err != nil {
		if errors.Is(err, audio.ErrBoardNotFound) {
			writeNotFound(w, "audioboard not found")
			return
		}
		writeInternalError(w, "failed to get audioboard")
		return
	}

	result, err := s.player.Control(r.Context(), board, track.TrackID, action)
	if err != nil {
		if errors.Is(err, audio.ErrInvalidAction) {
			writeBadRequest(w, "action must be one of play, pause, resume, stop")
			return
		}
		s.logger.Warn("audioboard control request failed",
			"audioboard_id", board.ID, "track_id", track.TrackID, "action", action, "error", err)
		writeUpstreamError(w, "audioboard did not respond")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

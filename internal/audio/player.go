package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Playback actions accepted by the board's control endpoint.
const (
	ActionPlay   = "play"
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionStop   = "stop"
)

// ValidAction reports whether action is one of the supported playback actions.
func ValidAction(action string) bool {
	switch action {
	case ActionPlay, ActionPause, ActionResume, ActionStop:
		return true
	}
	return false
}

// Player talks to the player API running on each audioboard.
//
// Track metadata lives in SQLite; the board keeps its own copy so it can
// resume after a reboot. RegisterTrack and PushSettings keep the board's
// copy in sync, Control drives playback.
type Player struct {
	httpClient *http.Client
}

// NewPlayer creates a Player with the given per-request timeout.
func NewPlayer(timeout time.Duration) *Player {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Player{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// playerTrack is the wire form the board's API expects.
type playerTrack struct {
	Name      string `json:"name"`
	AudioPath string `json:"audio_path"`
	Loop      bool   `json:"loop"`
	Random    bool   `json:"random"`
	TrackID   int64  `json:"track_id,omitempty"`
}

// RegisterTrack creates a track on the board's player API.
func (p *Player) RegisterTrack(ctx context.Context, board *Audioboard, track *Audiotrack) error {
	url := fmt.Sprintf("http://%s:%d/audiotracks", board.IPAddress, board.APIPort)
	payload := playerTrack{
		Name:      track.Name,
		AudioPath: track.AudioPath,
		Loop:      track.Loop,
		Random:    track.Random,
		TrackID:   track.TrackID,
	}
	if err := p.postJSON(ctx, url, payload); err != nil {
		return fmt.Errorf("registering track %s on board %s: %w", track.Name, board.ID, err)
	}
	return nil
}

// PushSettings sends updated track settings to the board's player API.
// Callers treat failures as non-fatal: the database copy is authoritative
// and is re-sent when the board reboots.
func (p *Player) PushSettings(ctx context.Context, board *Audioboard, track *Audiotrack) error {
	url := fmt.Sprintf("http://%s:%d/audiotracks/settings/%d", board.IPAddress, board.APIPort, track.TrackID)
	payload := playerTrack{
		Name:      track.Name,
		AudioPath: track.AudioPath,
		Loop:      track.Loop,
		Random:    track.Random,
	}
	if err := p.postJSON(ctx, url, payload); err != nil {
		return fmt.Errorf("pushing settings for track %d to board %s: %w", track.TrackID, board.ID, err)
	}
	return nil
}

// Control sends a playback action for a track and returns the board's
// response body decoded as JSON.
func (p *Player) Control(ctx context.Context, board *Audioboard, trackID int64, action string) (map[string]any, error) {
	if !ValidAction(action) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAction, action)
	}

	url := fmt.Sprintf("http://%s:%d/audiotracks/control/%d?action=%s",
		board.IPAddress, board.APIPort, trackID, action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building control request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlayerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: board %s returned HTTP %d", ErrPlayerUnreachable, board.ID, resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// Some firmware versions reply with an empty body.
		return map[string]any{}, nil
	}
	return body, nil
}

// postJSON sends a JSON payload and checks for a 2xx response.
func (p *Player) postJSON(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlayerUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d", ErrPlayerUnreachable, resp.StatusCode)
	}
	return nil
}

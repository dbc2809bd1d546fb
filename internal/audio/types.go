package audio

// Audioboard represents a networked audio player.
// The ID is assigned by the device itself during provisioning. APIPort is
// the port the board's player API listens on.
type Audioboard struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
	APIPort   int    `json:"api_port"`
	ProjectID *int64 `json:"project_id,omitempty"`
}

// Audiotrack represents a track registered on an audioboard.
// Loop replays the track when it ends; Random starts playback at a random
// offset (used for ambient soundscapes).
type Audiotrack struct {
	TrackID      int64  `json:"track_id"`
	Name         string `json:"name"`
	AudioPath    string `json:"audio_path"`
	Loop         bool   `json:"loop"`
	Random       bool   `json:"random"`
	AudioboardID string `json:"audioboard_id"`
}

// BoardPatch describes a partial update to an audioboard.
// Nil fields are left unchanged.
type BoardPatch struct {
	Name      *string `json:"name,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
	APIPort   *int    `json:"api_port,omitempty"`
	ProjectID *int64  `json:"project_id,omitempty"`
}

// TrackPatch describes a partial update to an audiotrack.
// Nil fields are left unchanged.
type TrackPatch struct {
	Name      *string `json:"name,omitempty"`
	AudioPath *string `json:"audio_path,omitempty"`
	Loop      *bool   `json:"loop,omitempty"`
	Random    *bool   `json:"random,omitempty"`
}

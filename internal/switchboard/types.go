package switchboard

// Switchboard represents a networked relay controller.
// The ID is assigned by the device itself and reported during provisioning,
// so it is a caller-supplied string rather than an autoincrement.
type Switchboard struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
	ProjectID *int64 `json:"project_id,omitempty"`
}

// Switch represents a single relay channel on a switchboard.
// Position is the 1-based channel number (1-8); it maps to the relay
// nickname used on the device's control endpoint.
type Switch struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Position      int    `json:"position"`
	State         bool   `json:"state"`
	Locked        bool   `json:"locked"`
	SwitchboardID string `json:"switchboard_id"`
}

// BoardPatch describes a partial update to a switchboard.
// Nil fields are left unchanged.
type BoardPatch struct {
	Name      *string `json:"name,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
	ProjectID *int64  `json:"project_id,omitempty"`
}

// SwitchPatch describes a partial update to a switch.
// Nil fields are left unchanged.
type SwitchPatch struct {
	Name     *string `json:"name,omitempty"`
	Position *int    `json:"position,omitempty"`
	State    *bool   `json:"state,omitempty"`
	Locked   *bool   `json:"locked,omitempty"`
}

package color

// Color is a named RGBW preset. White is nil for fixtures without a
// dedicated white channel.
type Color struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Red   int    `json:"red_value"`
	Green int    `json:"green_value"`
	Blue  int    `json:"blue_value"`
	White *int   `json:"white_value,omitempty"`
}

// Patch describes a partial update to a color preset.
// Nil fields are left unchanged.
type Patch struct {
	Name  *string `json:"name,omitempty"`
	Red   *int    `json:"red_value,omitempty"`
	Green *int    `json:"green_value,omitempty"`
	Blue  *int    `json:"blue_value,omitempty"`
	White *int    `json:"white_value,omitempty"`
}

package sensor

// DHT represents a networked temperature/humidity sensor.
// The ID is assigned by the device itself during provisioning.
type DHT struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
	ProjectID *int64 `json:"project_id,omitempty"`
}

// Patch describes a partial update to a DHT sensor.
// Nil fields are left unchanged.
type Patch struct {
	Name      *string `json:"name,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
	ProjectID *int64  `json:"project_id,omitempty"`
}

// Values is a live reading merged with the sensor's stored metadata.
type Values struct {
	Name         string  `json:"name"`
	IPAddress    string  `json:"ip_address"`
	TemperatureC float64 `json:"temperature_c"`
	TemperatureF float64 `json:"temperature_f"`
	Humidity     float64 `json:"humidity"`
}

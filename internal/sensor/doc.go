// Package sensor manages the installation's DHT temperature/humidity
// sensors. Metadata lives in SQLite; live values are fetched from each
// sensor's HTTP endpoint on demand and recorded to InfluxDB when the
// telemetry integration is enabled.
package sensor

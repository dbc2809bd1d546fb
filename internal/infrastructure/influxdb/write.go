package influxdb

import (
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// WriteSensorReading records a DHT sensor measurement.
//
// This is the primary method for recording environmental telemetry.
// The write is non-blocking; the point is batched and sent asynchronously.
//
// Parameters:
//   - sensorID: Unique identifier for the sensor (e.g., "dht-cellar-01")
//   - temperatureC: Temperature in degrees Celsius
//   - temperatureF: Temperature in degrees Fahrenheit
//   - humidity: Relative humidity percentage
//
// Example:
//
//	client.WriteSensorReading("dht-cellar-01", 21.5, 70.7, 48.2)
func (c *Client) WriteSensorReading(sensorID string, temperatureC, temperatureF, humidity float64) {
	if !c.IsConnected() {
		return
	}

	p := influxdb2.NewPoint(
		"sensor_readings",
		map[string]string{
			"sensor_id": sensorID,
		},
		map[string]interface{}{
			"temperature_c": temperatureC,
			"temperature_f": temperatureF,
			"humidity":      humidity,
		},
		time.Now(),
	)
	c.writeAPI.WritePoint(p)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(influxdb2.NewPoint(measurement, tags, fields, time.Now()))
}

// Package influxdb records installation telemetry in InfluxDB v2.
//
// Rhapsody Core uses it for DHT sensor readings: each time a sensor's
// live values are fetched, the temperature and humidity are written as a
// point in the configured bucket. Writes are non-blocking and batched;
// the integration is optional and controlled by the influxdb section of
// config.yaml.
//
// Usage:
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil { ... }
//	defer client.Close()
//	client.WriteSensorReading("dht-cellar", 21.5, 70.6, 48.0)
package influxdb

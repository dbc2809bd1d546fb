package influxdb

import "errors"

var (
	// ErrNotConnected is returned when an operation requires a live client.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed is returned when the server cannot be reached.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrWriteFailed is returned when a point cannot be written.
	ErrWriteFailed = errors.New("influxdb: write failed")

	// ErrDisabled is returned when the integration is switched off in config.
	ErrDisabled = errors.New("influxdb: disabled")
)

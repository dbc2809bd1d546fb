package sensor

import "errors"

var (
	// ErrNotFound is returned when a sensor ID does not exist.
	ErrNotFound = errors.New("sensor not found")

	// ErrUnreachable is returned when a sensor's HTTP endpoint cannot be
	// reached or replies with garbage.
	ErrUnreachable = errors.New("sensor unreachable")
)

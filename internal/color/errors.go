package color

import "errors"

// ErrNotFound is returned when a color ID does not exist.
var ErrNotFound = errors.New("color not found")

package project

import "errors"

// ErrNotFound is returned when a project ID does not exist.
var ErrNotFound = errors.New("project not found")

package switchboard

import "errors"

var (
	// ErrBoardNotFound is returned when a switchboard ID does not exist.
	ErrBoardNotFound = errors.New("switchboard not found")

	// ErrSwitchNotFound is returned when a switch ID does not exist.
	ErrSwitchNotFound = errors.New("switch not found")

	// ErrDuplicatePosition is returned when a switch would occupy a position
	// already taken on the same switchboard.
	ErrDuplicatePosition = errors.New("position already in use on switchboard")
)

package audio

import "errors"

var (
	// ErrBoardNotFound is returned when an audioboard ID does not exist.
	ErrBoardNotFound = errors.New("audioboard not found")

	// ErrTrackNotFound is returned when an audiotrack ID does not exist.
	ErrTrackNotFound = errors.New("audiotrack not found")

	// ErrDuplicateTrack is returned when a track name is already used on
	// the same audioboard.
	ErrDuplicateTrack = errors.New("track name already in use on audioboard")

	// ErrInvalidAction is returned for playback actions outside the
	// supported set.
	ErrInvalidAction = errors.New("unsupported playback action")

	// ErrPlayerUnreachable is returned when the board's player API cannot
	// be reached or rejects the request.
	ErrPlayerUnreachable = errors.New("player unreachable")
)

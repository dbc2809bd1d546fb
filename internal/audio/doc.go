// Package audio manages audioboards and the audiotracks they play.
//
// An audioboard runs the player service on the installation network; tracks
// are registered both here (SQLite, the source of truth for metadata) and on
// the board itself via the Player client. Playback commands are proxied to
// the board's control endpoint.
package audio

// Package switchboard manages relay switchboards and their switches.
//
// A switchboard is a networked relay controller with eight channels. Each
// channel is represented by a Switch row holding the channel's position
// (1-8), its last known state, and a lock flag that exempts it from batch
// toggles. Persistence is SQLite via Repository; the toggle subsystem
// consumes the same repository through narrow interfaces.
package switchboard

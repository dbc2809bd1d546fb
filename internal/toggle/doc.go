// Package toggle implements the switch-toggle fan-out subsystem.
//
// A toggle batch maps switch IDs to desired relay states. Processing runs
// in three stages:
//
//  1. Grouping: each pair is resolved independently against the switch and
//     switchboard stores, translated to the device-side relay nickname and
//     partitioned per switchboard. Unresolvable or locked switches are
//     recorded as errors and skipped without aborting the batch.
//  2. Dispatch: one HTTP POST per distinct switchboard, all in flight
//     concurrently, each bounded by its own timeout. One board's failure
//     never cancels another's request.
//  3. Reconciliation: persisted switch state is written back only for
//     switchboards whose dispatch succeeded, so the database never claims
//     a state the device did not confirm.
//
// The orchestrator never fails a batch: partial failure is the expected
// steady state and is returned in the Report for the caller to act on.
package toggle

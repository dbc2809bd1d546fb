package toggle

import (
	"context"
	"fmt"
)

// Reconcile writes applied relay states back to the store for exactly the
// switchboards whose dispatch succeeded.
//
// Failed boards are never reconciled: their rows keep the last confirmed
// state rather than the last requested one. A switch that vanished between
// dispatch and write-back records an error and reconciliation continues.
// The lock flag is not re-checked here; it gates grouping only.
func (s *Service) Reconcile(ctx context.Context, grouped map[string]Payload, successes []Result) []string {
	var errs []string

	for _, res := range successes {
		payload := grouped[res.SwitchboardID]
		for nickname, state := range payload {
			position, ok := PositionForNickname(nickname)
			if !ok {
				// Payload keys come from the nickname table; unreachable
				// unless the payload was built elsewhere.
				errs = append(errs, fmt.Sprintf("Switch associated with nickname %s on switchboard %s not found in the database", nickname, res.SwitchboardID))
				continue
			}

			sw, err := s.switches.GetSwitchByBoardAndPosition(ctx, res.SwitchboardID, position)
			if err != nil {
				errs = append(errs, fmt.Sprintf("Switch associated with nickname %s on switchboard %s not found in the database", nickname, res.SwitchboardID))
				continue
			}

			if err := s.switches.SetState(ctx, sw.ID, state == "ON"); err != nil {
				errs = append(errs, fmt.Sprintf("Switch associated with nickname %s on switchboard %s not found in the database", nickname, res.SwitchboardID))
			}
		}
	}

	return errs
}

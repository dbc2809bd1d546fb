package toggle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rhapsody24/rhapsody-core/internal/switchboard"
)

// Group partitions a toggle batch by owning switchboard.
//
// Each pair is resolved independently: a missing switch, a locked switch,
// a missing switchboard or an out-of-range position records an error and
// skips the pair; the rest of the batch is unaffected. When two switches
// in one batch resolve to the same board and nickname, the later one
// silently wins.
func (s *Service) Group(ctx context.Context, req Request) (map[string]Payload, []string) {
	grouped := make(map[string]Payload)
	var errs []string

	for id, state := range req {
		sw, err := s.switches.GetSwitch(ctx, id)
		if err != nil {
			if !errors.Is(err, switchboard.ErrSwitchNotFound) {
				s.logger.Error("switch lookup failed", "switch_id", id, "error", err)
			}
			errs = append(errs, fmt.Sprintf("Switch with id %d not found", id))
			continue
		}

		if sw.Locked {
			errs = append(errs, fmt.Sprintf("Switch %d is locked and cannot be toggled", id))
			continue
		}

		board, err := s.boards.GetBoard(ctx, sw.SwitchboardID)
		if err != nil {
			if !errors.Is(err, switchboard.ErrBoardNotFound) {
				s.logger.Error("switchboard lookup failed", "switchboard_id", sw.SwitchboardID, "error", err)
			}
			errs = append(errs, fmt.Sprintf("Switchboard with id %s not found", sw.SwitchboardID))
			continue
		}

		nickname, err := NicknameForPosition(sw.Position)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Switch %d has invalid position %d (must be 1-8)", id, sw.Position))
			continue
		}

		if grouped[board.ID] == nil {
			grouped[board.ID] = make(Payload)
		}
		grouped[board.ID][nickname] = stateString(state)
	}

	return grouped, errs
}

// stateString converts a desired boolean state to the wire literal.
func stateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

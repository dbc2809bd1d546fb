package toggle

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/rhapsody24/rhapsody-core/internal/infrastructure/mqtt"
)

// Toggle processes one toggle batch end to end: grouping, concurrent
// dispatch and reconciliation, in that order.
//
// It never fails the batch. The returned Report aggregates error strings
// from all three stages in stage order; partial failure is reported, not
// escalated. After reconciliation the applied per-board payloads are
// published retained for succeeded boards, best effort.
func (s *Service) Toggle(ctx context.Context, req Request) Report {
	batchID := uuid.NewString()

	grouped, groupErrs := s.Group(ctx, req)
	results := s.Dispatch(ctx, grouped)

	var successes []Result
	var dispatchErrs []string
	for _, res := range results {
		if res.Status == StatusSuccess {
			successes = append(successes, res)
		} else {
			dispatchErrs = append(dispatchErrs, res.Err)
		}
	}

	reconcileErrs := s.Reconcile(ctx, grouped, successes)

	errs := make([]string, 0, len(groupErrs)+len(dispatchErrs)+len(reconcileErrs))
	errs = append(errs, groupErrs...)
	errs = append(errs, dispatchErrs...)
	errs = append(errs, reconcileErrs...)

	s.publishStates(successes)

	s.logger.Info("toggle batch processed",
		"batch_id", batchID,
		"switches", len(req),
		"switchboards", len(grouped),
		"succeeded", len(successes),
		"errors", len(errs))

	return Report{ErrorCount: len(errs), Errors: errs}
}

// publishStates publishes the applied payload per succeeded board so
// observers (panels, bridges) see the outcome without polling.
func (s *Service) publishStates(successes []Result) {
	if s.publisher == nil {
		return
	}
	for _, res := range successes {
		body, err := json.Marshal(res.Payload)
		if err != nil {
			continue
		}
		topic := mqtt.SwitchboardStateTopic(res.SwitchboardID)
		if err := s.publisher.PublishRetained(topic, body); err != nil {
			s.logger.Warn("state publish failed",
				"switchboard_id", res.SwitchboardID, "error", err)
		}
	}
}

package toggle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Dispatch sends one control request per switchboard, all concurrently,
// and waits for every outcome.
//
// Each request runs under its own timeout derived from ctx; a slow or
// failing board never blocks or cancels its siblings. The board address is
// re-resolved here so a board deleted between grouping and dispatch fails
// immediately without a network call.
func (s *Service) Dispatch(ctx context.Context, grouped map[string]Payload) []Result {
	results := make([]Result, len(grouped))

	var wg sync.WaitGroup
	i := 0
	for boardID, payload := range grouped {
		wg.Add(1)
		go func(idx int, boardID string, payload Payload) {
			defer wg.Done()
			results[idx] = s.dispatchOne(ctx, boardID, payload)
		}(i, boardID, payload)
		i++
	}
	wg.Wait()

	return results
}

// dispatchOne posts a payload to a single switchboard's control endpoint.
func (s *Service) dispatchOne(ctx context.Context, boardID string, payload Payload) Result {
	board, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		return Result{
			SwitchboardID: boardID,
			Status:        StatusFailed,
			Err:           fmt.Sprintf("Switchboard with id %s not found in the database", boardID),
			Payload:       payload,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{
			SwitchboardID: boardID,
			Status:        StatusFailed,
			Err:           fmt.Sprintf("Request to switchboard %s failed: %v", boardID, err),
			Payload:       payload,
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url := fmt.Sprintf("http://%s/control", board.IPAddress)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{
			SwitchboardID: boardID,
			Status:        StatusFailed,
			Err:           fmt.Sprintf("Request to switchboard %s failed: %v", boardID, err),
			Payload:       payload,
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Result{
			SwitchboardID: boardID,
			Status:        StatusFailed,
			Err:           fmt.Sprintf("Request to switchboard %s failed: %v", boardID, err),
			Payload:       payload,
		}
	}
	defer resp.Body.Close()
	// Drain body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{
			SwitchboardID: boardID,
			Status:        StatusFailed,
			StatusCode:    resp.StatusCode,
			Err:           fmt.Sprintf("Request to switchboard %s failed: unexpected status %d", boardID, resp.StatusCode),
			Payload:       payload,
		}
	}

	return Result{
		SwitchboardID: boardID,
		Status:        StatusSuccess,
		StatusCode:    resp.StatusCode,
		Payload:       payload,
	}
}

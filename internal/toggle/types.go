package toggle

// Request maps switch IDs to desired relay states (true = ON).
type Request map[int64]bool

// Payload is the JSON body sent to one switchboard's control endpoint:
// relay nickname to the literal "ON" or "OFF". Boards take strings, not
// booleans.
type Payload map[string]string

// Dispatch outcome status tags.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Result is the outcome of one switchboard dispatch. A board either fully
// succeeded or fully failed; there is no partial application within one
// control request.
type Result struct {
	SwitchboardID string  `json:"switchboard_id"`
	Status        string  `json:"status"`
	StatusCode    int     `json:"response_status_code,omitempty"`
	Err           string  `json:"error,omitempty"`
	Payload       Payload `json:"payload_sent"`
}

// Report is the aggregate outcome of one toggle batch. Errors are ordered
// by stage: grouping, then dispatch, then reconciliation.
type Report struct {
	ErrorCount int      `json:"error_count"`
	Errors     []string `json:"errors"`
}

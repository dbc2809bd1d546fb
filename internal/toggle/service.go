package toggle

import (
	"context"
	"net/http"
	"time"

	"github.com/rhapsody24/rhapsody-core/internal/switchboard"
)

// DefaultDispatchTimeout bounds each outbound control request.
const DefaultDispatchTimeout = 5 * time.Second

// SwitchStore is the switch persistence surface the subsystem consumes.
// Satisfied by switchboard.SQLiteRepository.
type SwitchStore interface {
	GetSwitch(ctx context.Context, id int64) (*switchboard.Switch, error)
	GetSwitchByBoardAndPosition(ctx context.Context, boardID string, position int) (*switchboard.Switch, error)
	SetState(ctx context.Context, id int64, state bool) error
}

// BoardStore is the switchboard persistence surface the subsystem consumes.
// Satisfied by switchboard.SQLiteRepository.
type BoardStore interface {
	GetBoard(ctx context.Context, id string) (*switchboard.Switchboard, error)
}

// Publisher receives applied per-board states after reconciliation.
// Satisfied by the MQTT client; a nil Publisher disables publishing.
type Publisher interface {
	PublishRetained(topic string, payload []byte) error
}

// Logger defines the logging interface used by the Service.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Service orchestrates toggle batches: grouping, concurrent dispatch and
// state reconciliation.
//
// All public methods are safe for concurrent use; a Service carries no
// per-batch state.
type Service struct {
	switches SwitchStore
	boards   BoardStore

	httpClient *http.Client
	timeout    time.Duration

	logger    Logger
	publisher Publisher
}

// NewService creates a toggle Service. timeout bounds each outbound
// control request; zero or negative selects DefaultDispatchTimeout.
func NewService(switches SwitchStore, boards BoardStore, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	return &Service{
		switches: switches,
		boards:   boards,
		// Per-request deadlines come from the dispatch context.
		httpClient: &http.Client{},
		timeout:    timeout,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// SetPublisher sets the state publisher for the service.
func (s *Service) SetPublisher(p Publisher) {
	s.publisher = p
}

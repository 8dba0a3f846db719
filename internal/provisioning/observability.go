package provisioning

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

// Observer defines the interface for structured observability during a
// deployment.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured deployment event.
type Event struct {
	Type      EventType
	Phase     string
	Message   string
	Resource  string
	Timestamp time.Time
	Fields    map[string]string
}

// EventType represents the type of deployment event.
type EventType string

const (
	// EventPhaseStarted indicates a deployment phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a deployment phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a deployment phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a resource already exists.
	EventResourceExists EventType = "resource.exists"
	// EventResourceUpdating indicates an existing resource is being updated.
	EventResourceUpdating EventType = "resource.updating"
	// EventResourceDeleting indicates a resource is being deleted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a resource was deleted successfully.
	EventResourceDeleted EventType = "resource.deleted"

	// EventStateObserved indicates a provisioning-state observation.
	EventStateObserved EventType = "state.observed"

	// EventVerifyWarning indicates a non-fatal verification failure.
	EventVerifyWarning EventType = "verify.warning"
)

// ConsoleObserver implements Observer using the standard log package.
// Per-poll progress lines are only emitted on a terminal; in CI logs
// they would drown everything else.
type ConsoleObserver struct {
	contextFields map[string]string
	interactive   bool
}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		contextFields: make(map[string]string),
		interactive:   isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// Printf implements the Logger interface.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements the Observer interface.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}

	log.Print(o.formatEvent(event))
}

// Progress implements the Observer interface.
func (o *ConsoleObserver) Progress(phase string, current, total int) {
	if !o.interactive {
		return
	}
	if total == 0 {
		log.Printf("[%s] attempt %d", phase, current)
		return
	}
	log.Printf("[%s] attempt %d/%d", phase, current, total)
}

// WithFields implements the Observer interface.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &ConsoleObserver{
		contextFields: newFields,
		interactive:   o.interactive,
	}
}

// formatEvent formats an event for console output.
func (o *ConsoleObserver) formatEvent(event Event) string {
	var parts []string

	parts = append(parts, string(event.Type))

	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}

	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		fieldParts := make([]string, 0, len(event.Fields))
		for k, v := range event.Fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, v))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}

// NopObserver discards all output. Used by tests and --quiet surfaces.
type NopObserver struct{}

// Printf implements the Logger interface.
func (NopObserver) Printf(string, ...interface{}) {}

// Event implements the Observer interface.
func (NopObserver) Event(Event) {}

// Progress implements the Observer interface.
func (NopObserver) Progress(string, int, int) {}

// WithFields implements the Observer interface.
func (n NopObserver) WithFields(map[string]string) Observer { return n }

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogStateObserved logs a provisioning-state observation.
func LogStateObserved(observer Observer, phase, resource, state string, attempt int) {
	observer.Event(Event{
		Type:     EventStateObserved,
		Phase:    phase,
		Resource: resource,
		Message:  fmt.Sprintf("observed state %s", state),
		Fields: map[string]string{
			"attempt": fmt.Sprintf("%d", attempt),
		},
	})
}

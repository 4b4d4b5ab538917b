package orchestrator

import (
	"fmt"
	"strings"
)

// State is a task's position in a run.
type State string

const (
	StatePending   State = "pending"
	StateSkipped   State = "skipped"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Event is a progress notification for one task.
type Event struct {
	// Index is the task's position among the valid tasks.
	Index       int
	Description string
	State       State
	Title       string
	// Message carries a progress line while the task is running.
	Message string
	Err     error
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Outcome is the final state of one valid task.
type Outcome struct {
	Description string `json:"description"`
	Title       string `json:"title"`
	State       State  `json:"state"`
}

// Result summarises a run.
type Result struct {
	Outcomes []Outcome
	// Err is the failure that stopped the run, nil on success.
	Err *TaskError
}

// Failed reports whether a task failed.
func (r Result) Failed() bool { return r.Err != nil }

// TaskError is the terminating failure of a run.
type TaskError struct {
	Description string
	Err         error
	Mitigation  string
}

func (e *TaskError) Error() string {
	if strings.TrimSpace(e.Mitigation) == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v\n\n%s", e.Err, e.Mitigation)
}

func (e *TaskError) Unwrap() error { return e.Err }

const banner = "🚨 💥 🚨 💥 🚨"

// FailureBanner renders err for the terminal.
func FailureBanner(err error) string {
	return fmt.Sprintf("\n%s\n\n%v\n", banner, err)
}

package flow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vmpilot/vmpilot/internal/config"
)

// StateRunning is the remote status string that marks a target as already up.
// Both backends normalize their status reporting to this value.
const StateRunning = "running"

// OutcomeStatus classifies the result of starting one target.
type OutcomeStatus string

const (
	// StatusStarted means a start command was issued successfully.
	StatusStarted OutcomeStatus = "started"
	// StatusAlreadyRunning means the target was up and no start was issued.
	StatusAlreadyRunning OutcomeStatus = "already-running"
	// StatusFailed means the target could not be started; Reason says why.
	StatusFailed OutcomeStatus = "failed"
)

// Outcome is the immutable per-target result produced by the Starter.
type Outcome struct {
	Target config.LaunchTarget
	// Name is an optional human-friendly label resolved by the backend.
	Name     string
	Status   OutcomeStatus
	Reason   string
	Duration time.Duration
}

// String renders the outcome as one human-readable notification line.
func (o Outcome) String() string {
	label := fmt.Sprintf("%s %d on %s", o.Target.Kind, o.Target.ID, o.Target.Node)
	if o.Name != "" {
		label = fmt.Sprintf("%s %d (%s) on %s", o.Target.Kind, o.Target.ID, o.Name, o.Target.Node)
	}
	if o.Status == StatusFailed {
		return fmt.Sprintf("%s: failed (%s)", label, o.Reason)
	}
	return fmt.Sprintf("%s: %s", label, o.Status)
}

// RunState tracks the executor's per-run state machine.
type RunState int

const (
	RunNotStarted RunState = iota
	RunRunning
	RunCompleted
)

// String returns the state name for logging.
func (s RunState) String() string {
	switch s {
	case RunNotStarted:
		return "not-started"
	case RunRunning:
		return "running"
	case RunCompleted:
		return "completed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Summary aggregates the outcomes of one run. It is owned by the Executor
// for the duration of the run and discarded after notifications are sent.
type Summary struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Outcomes  []Outcome

	// Fatal is set when the run failed outside the per-target loop.
	Fatal error
}

func newSummary() *Summary {
	return &Summary{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
	}
}

func (s *Summary) record(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

func (s *Summary) count(status OutcomeStatus) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Started returns the number of targets for which a start was issued.
func (s *Summary) Started() int { return s.count(StatusStarted) }

// Skipped returns the number of targets that were already running.
func (s *Summary) Skipped() int { return s.count(StatusAlreadyRunning) }

// Failed returns the number of targets that could not be started.
func (s *Summary) Failed() int { return s.count(StatusFailed) }

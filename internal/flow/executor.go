package flow

import (
	"context"
	"log/slog"

	"github.com/vmpilot/vmpilot/internal/config"
)

// starter defines the per-target operation the Executor needs.
// *Starter satisfies this; tests inject mocks.
type starter interface {
	Start(ctx context.Context, t config.LaunchTarget) Outcome
}

// Preflight is an optional check run once before the per-target loop, e.g. a
// control-plane authentication probe. A preflight failure is a fatal run
// error: it is reported through Notifier.Fatal and no targets are attempted.
type Preflight func(ctx context.Context) error

// Executor orchestrates one startup run. Targets are processed strictly in
// configured order; a failure on one target never aborts the run.
type Executor struct {
	starter   starter
	notifier  Notifier
	preflight Preflight
	log       *slog.Logger

	state RunState
}

// NewExecutor builds an Executor. notifier may be nil when no channels are
// configured; preflight may be nil to skip the startup check.
func NewExecutor(st starter, notifier Notifier, preflight Preflight, log *slog.Logger) *Executor {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Executor{
		starter:   st,
		notifier:  notifier,
		preflight: preflight,
		log:       log,
		state:     RunNotStarted,
	}
}

// State returns the executor's run state.
func (e *Executor) State() RunState { return e.state }

// Run executes the startup sequence over targets and returns the run
// summary. The notification flush happens on every exit path, including the
// early fatal return, and the run always ends Completed.
func (e *Executor) Run(ctx context.Context, targets []config.LaunchTarget) *Summary {
	sum := newSummary()
	e.state = RunRunning
	e.log.Info("run starting", "run_id", sum.RunID, "targets", len(targets))

	defer func() {
		e.state = RunCompleted
		e.notifier.Send(ctx)
		e.log.Info("run completed",
			"run_id", sum.RunID,
			"started", sum.Started(),
			"skipped", sum.Skipped(),
			"failed", sum.Failed())
	}()

	if e.preflight != nil {
		if err := e.preflight(ctx); err != nil {
			sum.Fatal = err
			e.log.Error("run aborted before target loop", "run_id", sum.RunID, "error", err)
			e.notifier.Fatal(err.Error())
			return sum
		}
	}

	for _, t := range targets {
		outcome := e.starter.Start(ctx, t)
		sum.record(outcome)
		e.notifier.Notify(outcome)
		e.log.Info("target processed",
			"run_id", sum.RunID,
			"id", t.ID,
			"kind", t.Kind,
			"node", t.Node,
			"status", string(outcome.Status))
	}

	return sum
}

// noopNotifier stands in when no notification channels are configured.
type noopNotifier struct{}

func (noopNotifier) Notify(Outcome) {}

func (noopNotifier) Fatal(string) {}

func (noopNotifier) Send(context.Context) {}

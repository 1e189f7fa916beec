package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/vmpilot/vmpilot/internal/config"
)

// Starter drives one launch target through its start sequence. It performs
// exactly one status query and at most one start command per invocation, and
// never lets a remote error escape; retry policy, if any, belongs to the
// caller.
type Starter struct {
	client Client
	ready  Readiness
	log    *slog.Logger
}

// NewStarter builds a Starter using the given client and readiness strategy.
func NewStarter(client Client, ready Readiness, log *slog.Logger) *Starter {
	return &Starter{client: client, ready: ready, log: log}
}

// Start returns the outcome of starting the target. Starting a target that
// is already running is a no-op so repeated runs stay idempotent.
func (s *Starter) Start(ctx context.Context, t config.LaunchTarget) Outcome {
	began := time.Now()
	name := s.displayName(ctx, t)

	status, err := s.client.Status(ctx, t)
	if err != nil {
		return s.failed(t, name, fmt.Sprintf("status check failed: %v", err), began)
	}

	if status == StateRunning {
		s.log.Debug("target already running", "id", t.ID, "node", t.Node)
		return Outcome{Target: t, Name: name, Status: StatusAlreadyRunning, Duration: time.Since(began)}
	}

	if !s.ready.IsReady(ctx, t) {
		return s.failed(t, name, "node not ready", began)
	}

	if err := s.client.Start(ctx, t); err != nil {
		return s.failed(t, name, err.Error(), began)
	}

	return Outcome{Target: t, Name: name, Status: StatusStarted, Duration: time.Since(began)}
}

// displayName asks the client for a human label when it can provide one. A
// label that merely echoes the numeric id is dropped.
func (s *Starter) displayName(ctx context.Context, t config.LaunchTarget) string {
	dn, ok := s.client.(DisplayNamer)
	if !ok {
		return ""
	}
	name := dn.DisplayName(ctx, t)
	if name == strconv.Itoa(t.ID) {
		return ""
	}
	return name
}

func (s *Starter) failed(t config.LaunchTarget, name, reason string, began time.Time) Outcome {
	s.log.Warn("target start failed", "id", t.ID, "node", t.Node, "reason", reason)
	return Outcome{Target: t, Name: name, Status: StatusFailed, Reason: reason, Duration: time.Since(began)}
}

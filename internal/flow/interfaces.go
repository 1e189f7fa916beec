package flow

import (
	"context"

	"github.com/vmpilot/vmpilot/internal/config"
)

// Client defines the control-plane operations the flow package needs.
//
// In production, this is satisfied by *proxmox.Client or *libvirt.Client.
// In tests, this is satisfied by mock implementations.
type Client interface {
	// Status returns the current status of the target, normalized so that a
	// running target reports StateRunning.
	Status(ctx context.Context, t config.LaunchTarget) (string, error)

	// Start issues the start command for the target.
	Start(ctx context.Context, t config.LaunchTarget) error
}

// DisplayNamer is an optional Client capability. Backends that can resolve a
// human-friendly label for a target implement it; the Starter stamps the
// label onto each outcome so notification lines carry it.
type DisplayNamer interface {
	DisplayName(ctx context.Context, t config.LaunchTarget) string
}

// Notifier is the event sink for run outcomes.
//
// In production, this is satisfied by *notify.Manager.
type Notifier interface {
	// Notify records one per-target outcome.
	Notify(o Outcome)

	// Fatal records a run-level failure distinct from per-target failures.
	Fatal(msg string)

	// Send flushes the accumulated messages over every channel.
	Send(ctx context.Context)
}

// Readiness decides whether a target's owning node can currently accept a
// start request. Implementations return false rather than an error when the
// check itself cannot be completed.
type Readiness interface {
	IsReady(ctx context.Context, t config.LaunchTarget) bool
}

// ReadyFunc adapts a plain function to the Readiness interface.
type ReadyFunc func(ctx context.Context, t config.LaunchTarget) bool

// IsReady calls f.
func (f ReadyFunc) IsReady(ctx context.Context, t config.LaunchTarget) bool {
	return f(ctx, t)
}

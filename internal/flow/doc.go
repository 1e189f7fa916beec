// Package flow drives one startup run over a configured list of launch
// targets.
//
// The Executor walks targets in configured order, the Starter drives each
// target through its idempotent start sequence, and a Readiness implementation
// gates start commands on the owning node being able to accept work. A
// failure on one target never aborts the run; every outcome is recorded in
// the run summary and forwarded to the notification sink.
//
// Consumer-Side Interfaces:
//
// This package defines the Client and Notifier interfaces it consumes.
// internal/proxmox and internal/libvirt satisfy Client, and
// internal/notify.Manager satisfies Notifier. Tests inject mocks.
package flow

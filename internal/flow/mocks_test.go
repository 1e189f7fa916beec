package flow

import (
	"context"
	"io"
	"log/slog"

	"github.com/vmpilot/vmpilot/internal/config"
)

// mockClient is a mock implementation of the Client interface for testing.
type mockClient struct {
	// Configurable behavior
	statusFunc func(t config.LaunchTarget) (string, error)
	startFunc  func(t config.LaunchTarget) error

	// Call tracking
	statusCalls []config.LaunchTarget
	startCalls  []config.LaunchTarget
}

func newMockClient() *mockClient {
	m := &mockClient{}
	m.statusFunc = func(config.LaunchTarget) (string, error) { return "stopped", nil }
	m.startFunc = func(config.LaunchTarget) error { return nil }
	return m
}

func (m *mockClient) Status(_ context.Context, t config.LaunchTarget) (string, error) {
	m.statusCalls = append(m.statusCalls, t)
	return m.statusFunc(t)
}

func (m *mockClient) Start(_ context.Context, t config.LaunchTarget) error {
	m.startCalls = append(m.startCalls, t)
	return m.startFunc(t)
}

// mockNamedClient is a mockClient that also resolves display names.
type mockNamedClient struct {
	*mockClient
	displayNameFunc func(t config.LaunchTarget) string
	nameCalls       []config.LaunchTarget
}

func (m *mockNamedClient) DisplayName(_ context.Context, t config.LaunchTarget) string {
	m.nameCalls = append(m.nameCalls, t)
	return m.displayNameFunc(t)
}

// mockNotifier records notification calls for assertions.
type mockNotifier struct {
	notified  []Outcome
	fatals    []string
	sendCalls int
}

func (m *mockNotifier) Notify(o Outcome) { m.notified = append(m.notified, o) }

func (m *mockNotifier) Fatal(msg string) { m.fatals = append(m.fatals, msg) }

func (m *mockNotifier) Send(context.Context) { m.sendCalls++ }

// mockStarter lets executor tests script per-target outcomes directly.
type mockStarter struct {
	startFunc  func(t config.LaunchTarget) Outcome
	startCalls []config.LaunchTarget
}

func (m *mockStarter) Start(_ context.Context, t config.LaunchTarget) Outcome {
	m.startCalls = append(m.startCalls, t)
	return m.startFunc(t)
}

// mockNodeStatuser scripts NodeOnline responses.
type mockNodeStatuser struct {
	onlineFunc func(node string) (bool, error)
	calls      []string
}

func (m *mockNodeStatuser) NodeOnline(_ context.Context, node string) (bool, error) {
	m.calls = append(m.calls, node)
	return m.onlineFunc(node)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTarget(id int) config.LaunchTarget {
	return config.LaunchTarget{ID: id, Kind: config.KindQEMU, Node: "pve1"}
}

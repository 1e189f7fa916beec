package notify

import (
	"strings"
	"testing"
	"time"
)

func TestMessage_Render(t *testing.T) {
	start := time.Date(2026, 8, 25, 6, 0, 0, 0, time.UTC)
	m := NewMessage(start)

	if got := m.String(); got != "vmpilot run started at 2026-08-25 06:00:00" {
		t.Errorf("Header-only render = %q", got)
	}

	m.AppendLine("qemu 100 on pve1: started")
	m.AppendLine("lxc 200 on pve2: already-running")

	body := m.String()
	if !strings.Contains(body, "qemu 100 on pve1: started\nlxc 200 on pve2: already-running") {
		t.Errorf("Expected outcome lines in call order, got:\n%s", body)
	}
	if m.HasFatal() {
		t.Error("HasFatal() = true before any fatal")
	}

	m.AppendFatal("cluster unreachable")
	body = m.String()
	if !strings.HasSuffix(body, "FATAL: cluster unreachable") {
		t.Errorf("Expected fatal section at end, got:\n%s", body)
	}
	if !m.HasFatal() {
		t.Error("HasFatal() = false after AppendFatal")
	}
}

func TestMessage_FatalWithoutOutcomes(t *testing.T) {
	m := NewMessage(time.Now())
	m.AppendFatal("authentication failed")

	body := m.String()
	if !strings.Contains(body, "FATAL: authentication failed") {
		t.Errorf("Expected fatal section, got:\n%s", body)
	}
	if len(m.Lines()) != 0 {
		t.Errorf("Expected no outcome lines, got %d", len(m.Lines()))
	}
}

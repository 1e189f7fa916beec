package notify

import (
	"fmt"
	"strings"
	"time"
)

// Message is the append-only accumulator for one channel's run report. It is
// owned exclusively by its channel, built incrementally during the run and
// sent exactly once.
type Message struct {
	header string
	lines  []string
	fatal  string
}

// NewMessage returns an empty message seeded with a run-start header.
func NewMessage(start time.Time) *Message {
	return &Message{
		header: fmt.Sprintf("vmpilot run started at %s", start.Format("2006-01-02 15:04:05")),
	}
}

// AppendLine appends one outcome line.
func (m *Message) AppendLine(line string) {
	m.lines = append(m.lines, line)
}

// AppendFatal sets the fatal-error section.
func (m *Message) AppendFatal(msg string) {
	m.fatal = fmt.Sprintf("FATAL: %s", msg)
}

// Lines returns the outcome lines appended so far.
func (m *Message) Lines() []string { return m.lines }

// HasFatal reports whether a fatal section was recorded.
func (m *Message) HasFatal() bool { return m.fatal != "" }

// String renders the full message body.
func (m *Message) String() string {
	var b strings.Builder
	b.WriteString(m.header)
	if len(m.lines) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(m.lines, "\n"))
	}
	if m.fatal != "" {
		b.WriteString("\n\n")
		b.WriteString(m.fatal)
	}
	return b.String()
}

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/vmpilot/vmpilot/internal/config"
	"github.com/vmpilot/vmpilot/internal/flow"
)

// Channel is one outbound delivery mechanism for run results.
type Channel interface {
	// BuildMessage returns a fresh accumulator seeded with a run-start
	// header.
	BuildMessage(start time.Time) *Message

	// Send delivers the accumulated message over the channel's transport.
	Send(ctx context.Context, m *Message) error
}

// Constructor builds a Channel from its settings block. A constructor must
// fail when required settings are missing, so configuration defects surface
// at manager construction time rather than at send time.
type Constructor func(settings config.ChannelSettings) (Channel, error)

// Registry maps channel names to constructors. The set is closed and
// resolved by name; unknown names in the config are skipped.
type Registry map[string]Constructor

// DefaultRegistry returns the built-in channel set.
func DefaultRegistry() Registry {
	return Registry{
		"telegram": newTelegram,
		"email":    newEmail,
		"sms":      newSMS,
	}
}

// activeChannel pairs a constructed channel with its in-flight message.
type activeChannel struct {
	name string
	ch   Channel
	msg  *Message
}

// Manager owns the active channels for one run and routes events to all of
// them. It satisfies flow.Notifier.
type Manager struct {
	channels []activeChannel
	log      *slog.Logger
}

// NewManager builds one channel per recognized, non-disabled entry in cfg.
// Unknown channel names are skipped; a channel that cannot construct itself
// from its settings is an error.
func NewManager(cfg config.NotifierConfig, registry Registry, log *slog.Logger) (*Manager, error) {
	m := &Manager{log: log}
	start := time.Now()

	for _, entry := range cfg {
		// A well-formed entry has a single key; sort for determinism when
		// it does not.
		names := make([]string, 0, len(entry))
		for name := range entry {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			settings := entry[name]
			ctor, ok := registry[name]
			if !ok {
				log.Debug("skipping unrecognized notification channel", "channel", name)
				continue
			}
			if settings.Disabled() {
				log.Debug("skipping disabled notification channel", "channel", name)
				continue
			}

			ch, err := ctor(settings)
			if err != nil {
				return nil, fmt.Errorf("notification channel %s: %w", name, err)
			}

			m.channels = append(m.channels, activeChannel{
				name: name,
				ch:   ch,
				msg:  ch.BuildMessage(start),
			})
		}
	}

	return m, nil
}

// Active returns the number of active channels. It always equals the number
// of in-flight messages.
func (m *Manager) Active() int { return len(m.channels) }

// Notify appends one outcome line to every active channel's message. It
// never fails toward the caller.
func (m *Manager) Notify(o flow.Outcome) {
	for _, ac := range m.channels {
		ac.msg.AppendLine(o.String())
	}
}

// Fatal appends a fatal-error section to every active channel's message.
func (m *Manager) Fatal(msg string) {
	for _, ac := range m.channels {
		ac.msg.AppendFatal(msg)
	}
}

// Send delivers every accumulated message, in channel registration order.
// Each channel's send is independent; delivery failures are logged and do
// not affect the other channels or the run's exit status.
func (m *Manager) Send(ctx context.Context) {
	for _, ac := range m.channels {
		if err := ac.ch.Send(ctx, ac.msg); err != nil {
			m.log.Error("notification delivery failed", "channel", ac.name, "error", err)
			continue
		}
		m.log.Debug("notification sent", "channel", ac.name)
	}
}

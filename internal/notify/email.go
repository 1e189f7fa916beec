package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/vmpilot/vmpilot/internal/config"
)

// emailChannel delivers run reports over SMTP.
type emailChannel struct {
	server string
	port   int
	user   string
	pass   string
	from   string
	to     string

	// send is smtp.SendMail in production; tests stub it.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// newEmail builds the email channel. Settings: smtp_server, smtp_port,
// smtp_user, smtp_password, from_email, to_email.
func newEmail(settings config.ChannelSettings) (Channel, error) {
	ch := &emailChannel{
		server: settings.GetString("smtp_server"),
		port:   settings.GetInt("smtp_port"),
		user:   settings.GetString("smtp_user"),
		pass:   settings.GetString("smtp_password"),
		from:   settings.GetString("from_email"),
		to:     settings.GetString("to_email"),
		send:   smtp.SendMail,
	}

	if ch.server == "" {
		return nil, fmt.Errorf("smtp_server is required")
	}
	if ch.from == "" || ch.to == "" {
		return nil, fmt.Errorf("from_email and to_email are required")
	}
	if ch.port == 0 {
		ch.port = 587
	}

	return ch, nil
}

func (e *emailChannel) BuildMessage(start time.Time) *Message {
	return NewMessage(start)
}

func (e *emailChannel) Send(_ context.Context, m *Message) error {
	subject := "vmpilot run report"
	if m.HasFatal() {
		subject = "vmpilot run report (FATAL)"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", e.from)
	fmt.Fprintf(&body, "To: %s\r\n", e.to)
	fmt.Fprintf(&body, "Subject: %s\r\n", subject)
	body.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	body.WriteString(m.String())

	var auth smtp.Auth
	if e.user != "" {
		auth = smtp.PlainAuth("", e.user, e.pass, e.server)
	}

	addr := fmt.Sprintf("%s:%d", e.server, e.port)
	if err := e.send(addr, auth, e.from, []string{e.to}, []byte(body.String())); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	return nil
}

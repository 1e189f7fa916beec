package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vmpilot/vmpilot/internal/config"
)

const telegramAPIBase = "https://api.telegram.org"

// telegramChannel delivers run reports via the Telegram Bot API.
type telegramChannel struct {
	token  string
	chatID string
	base   string
	client *http.Client
}

// newTelegram builds the telegram channel. Settings: token, chat_id.
// api_url overrides the Bot API endpoint (used by tests).
func newTelegram(settings config.ChannelSettings) (Channel, error) {
	token := settings.GetString("token")
	chatID := settings.GetString("chat_id")
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat_id is required")
	}

	base := settings.GetString("api_url")
	if base == "" {
		base = telegramAPIBase
	}

	return &telegramChannel{
		token:  token,
		chatID: chatID,
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (t *telegramChannel) BuildMessage(start time.Time) *Message {
	return NewMessage(start)
}

func (t *telegramChannel) Send(ctx context.Context, m *Message) error {
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", m.String())

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.base, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("telegram returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

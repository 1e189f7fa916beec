package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vmpilot/vmpilot/internal/config"
)

// smsChannel delivers run reports through an HTTP SMS gateway.
type smsChannel struct {
	gatewayURL string
	apiKey     string
	to         string
	client     *http.Client
}

// newSMS builds the sms channel. Settings: gateway_url, api_key, to.
func newSMS(settings config.ChannelSettings) (Channel, error) {
	ch := &smsChannel{
		gatewayURL: settings.GetString("gateway_url"),
		apiKey:     settings.GetString("api_key"),
		to:         settings.GetString("to"),
		client:     &http.Client{Timeout: 10 * time.Second},
	}

	if ch.gatewayURL == "" {
		return nil, fmt.Errorf("gateway_url is required")
	}
	if ch.to == "" {
		return nil, fmt.Errorf("to is required")
	}

	return ch, nil
}

func (s *smsChannel) BuildMessage(start time.Time) *Message {
	return NewMessage(start)
}

func (s *smsChannel) Send(ctx context.Context, m *Message) error {
	payload, err := json.Marshal(map[string]string{
		"to":   s.to,
		"body": m.String(),
	})
	if err != nil {
		return fmt.Errorf("encode sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Package proxmox implements a minimal Proxmox VE API client covering the
// operations vmpilot needs: per-target status and start/stop, node status
// for readiness checks, and the version endpoint used as a connection probe.
package proxmox

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/vmpilot/vmpilot/internal/config"
)

const defaultTimeout = 30 * time.Second

// RemoteError is returned for any request the API rejected, carrying the
// HTTP status and the API's message.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("proxmox api error: %d %s", e.StatusCode, e.Message)
}

// Client talks to the Proxmox VE HTTP API. It supports API-token auth and
// ticket-based user/password auth; with password auth the ticket is obtained
// lazily on the first request.
type Client struct {
	baseURL  string
	settings config.ProxmoxSettings
	http     *http.Client

	mu     sync.Mutex
	ticket string
	csrf   string
}

// New builds a Client from settings. No network traffic happens here;
// authentication is verified by the first call (see Version).
func New(settings config.ProxmoxSettings) (*Client, error) {
	if settings.Host == "" {
		return nil, fmt.Errorf("proxmox: host is required")
	}
	if !settings.HasTokenAuth() && !settings.HasPasswordAuth() {
		return nil, fmt.Errorf("proxmox: no usable authentication settings")
	}

	port := settings.Port
	if port == 0 {
		port = 8006
	}

	transport := &http.Transport{}
	if !settings.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL:  fmt.Sprintf("https://%s:%d/api2/json", settings.Host, port),
		settings: settings,
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport,
		},
	}, nil
}

// NewWithBaseURL builds a Client against an explicit base URL. Intended for
// tests pointing at an httptest server.
func NewWithBaseURL(settings config.ProxmoxSettings, baseURL string) (*Client, error) {
	c, err := New(settings)
	if err != nil {
		return nil, err
	}
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.http = &http.Client{Timeout: defaultTimeout}
	return c, nil
}

// Status returns the target's current status string ("running", "stopped").
func (c *Client) Status(ctx context.Context, t config.LaunchTarget) (string, error) {
	var data struct {
		Status string `json:"status"`
	}
	path := fmt.Sprintf("/nodes/%s/%s/%d/status/current", t.Node, t.Kind, t.ID)
	if err := c.get(ctx, path, &data); err != nil {
		return "", err
	}
	return data.Status, nil
}

// Start issues the start command for the target.
func (c *Client) Start(ctx context.Context, t config.LaunchTarget) error {
	path := fmt.Sprintf("/nodes/%s/%s/%d/status/start", t.Node, t.Kind, t.ID)
	return c.post(ctx, path)
}

// Stop issues a graceful shutdown for the target.
func (c *Client) Stop(ctx context.Context, t config.LaunchTarget) error {
	path := fmt.Sprintf("/nodes/%s/%s/%d/status/shutdown", t.Node, t.Kind, t.ID)
	return c.post(ctx, path)
}

// NodeOnline reports whether the named cluster node is online.
func (c *Client) NodeOnline(ctx context.Context, node string) (bool, error) {
	var data []struct {
		Node   string `json:"node"`
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/nodes", &data); err != nil {
		return false, err
	}
	for _, n := range data {
		if n.Node == node {
			return n.Status == "online", nil
		}
	}
	return false, fmt.Errorf("node %q not found in cluster", node)
}

// Version returns the Proxmox VE version string. It doubles as the
// connection/authentication probe used before a run.
func (c *Client) Version(ctx context.Context) (string, error) {
	var data struct {
		Version string `json:"version"`
	}
	if err := c.get(ctx, "/version", &data); err != nil {
		return "", err
	}
	return data.Version, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, out)
}

func (c *Client) post(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodPost, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}

	if err := c.authorize(ctx, req); err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data from %s: %w", path, err)
	}
	return nil
}

// authorize attaches credentials to the request, logging in first when
// password auth is in use and no ticket is held yet.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.settings.HasTokenAuth() {
		req.Header.Set("Authorization",
			fmt.Sprintf("PVEAPIToken=%s=%s", c.tokenUser(), c.settings.TokenSecret))
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticket == "" {
		if err := c.login(ctx); err != nil {
			return err
		}
	}
	req.AddCookie(&http.Cookie{Name: "PVEAuthCookie", Value: c.ticket})
	if req.Method != http.MethodGet {
		req.Header.Set("CSRFPreventionToken", c.csrf)
	}
	return nil
}

// tokenUser returns the full token identifier. token_id may already carry
// the user@realm! prefix; otherwise it is combined with user and realm.
func (c *Client) tokenUser() string {
	if strings.Contains(c.settings.TokenID, "!") {
		return c.settings.TokenID
	}
	return fmt.Sprintf("%s@%s!%s", c.settings.User, c.settings.Realm, c.settings.TokenID)
}

func (c *Client) login(ctx context.Context) error {
	form := url.Values{}
	form.Set("username", fmt.Sprintf("%s@%s", c.settings.User, c.settings.Realm))
	form.Set("password", c.settings.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/access/ticket", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	var envelope struct {
		Data struct {
			Ticket string `json:"ticket"`
			CSRF   string `json:"CSRFPreventionToken"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if envelope.Data.Ticket == "" {
		return &RemoteError{StatusCode: resp.StatusCode, Message: "login returned no ticket"}
	}

	c.ticket = envelope.Data.Ticket
	c.csrf = envelope.Data.CSRF
	return nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return &RemoteError{StatusCode: resp.StatusCode, Message: msg}
}

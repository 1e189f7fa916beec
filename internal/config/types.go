package config

import (
	"fmt"
	"strings"
)

// Target kinds understood by the control plane.
const (
	KindQEMU = "qemu"
	KindLXC  = "lxc"
)

// Providers selectable via the top-level provider key.
const (
	ProviderProxmox = "proxmox"
	ProviderLibvirt = "libvirt"
)

// Config is the complete vmpilot configuration loaded from a single YAML file.
type Config struct {
	Provider  string          `yaml:"provider,omitempty"`
	Proxmox   ProxmoxSettings `yaml:"proxmox,omitempty"`
	Libvirt   LibvirtSettings `yaml:"libvirt,omitempty"`
	Targets   []LaunchTarget  `yaml:"targets"`
	Notifiers NotifierConfig  `yaml:"notifications,omitempty"`
	App       AppSettings     `yaml:"app,omitempty"`
}

// ProxmoxSettings holds connection and authentication settings for the
// Proxmox API. Either a token pair or user/realm/password must be provided.
type ProxmoxSettings struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port,omitempty"`
	User        string `yaml:"user,omitempty"`
	Realm       string `yaml:"realm,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TokenID     string `yaml:"token_id,omitempty"`
	TokenSecret string `yaml:"token_secret,omitempty"`
	VerifySSL   bool   `yaml:"verify_ssl,omitempty"`
}

// HasTokenAuth reports whether a complete API token pair is configured.
func (p ProxmoxSettings) HasTokenAuth() bool {
	return p.TokenID != "" && p.TokenSecret != ""
}

// HasPasswordAuth reports whether complete user/realm/password credentials
// are configured.
func (p ProxmoxSettings) HasPasswordAuth() bool {
	return p.User != "" && p.Realm != "" && p.Password != ""
}

// LibvirtSettings holds settings for the local libvirt backend.
type LibvirtSettings struct {
	Socket string `yaml:"socket,omitempty"`
}

// LaunchTarget identifies one VM or container to start, in the operator's
// intended startup order. Name is optional and only consulted by the libvirt
// backend, which addresses domains by name rather than numeric ID.
type LaunchTarget struct {
	ID   int    `yaml:"id"`
	Kind string `yaml:"kind"`
	Node string `yaml:"node"`
	Name string `yaml:"name,omitempty"`
}

// Validate checks the target for configuration defects.
func (t LaunchTarget) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("target id must be a positive integer, got %d", t.ID)
	}
	if t.Kind != KindQEMU && t.Kind != KindLXC {
		return fmt.Errorf("target %d: unknown kind %q (expected %s or %s)", t.ID, t.Kind, KindQEMU, KindLXC)
	}
	if strings.TrimSpace(t.Node) == "" {
		return fmt.Errorf("target %d: node must not be empty", t.ID)
	}
	return nil
}

// AppSettings holds process-level settings.
type AppSettings struct {
	LockFile string `yaml:"lock_file,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

// NotifierConfig is the ordered list of notification channel sections. Each
// entry maps a channel name to its settings; order determines send order.
type NotifierConfig []NotifierEntry

// NotifierEntry maps one channel name to its settings. A well-formed entry
// has exactly one key, but extra keys are tolerated and treated as separate
// channel sections.
type NotifierEntry map[string]ChannelSettings

// ChannelSettings is the free-form settings block for one channel.
type ChannelSettings map[string]any

// GetString returns the value for key as a string, or "" when absent. Integer
// values are formatted, so ports may be written without quotes.
func (s ChannelSettings) GetString(key string) string {
	switch v := s[key].(type) {
	case string:
		return v
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}

// GetInt returns the value for key as an int, or 0 when absent or unparsable.
func (s ChannelSettings) GetInt(key string) int {
	switch v := s[key].(type) {
	case int:
		return v
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return 0
}

// Disabled reports whether the settings block opts the channel out.
func (s ChannelSettings) Disabled() bool {
	v, ok := s["disabled"].(bool)
	return ok && v
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads and validates a vmpilot configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return LoadFromYAML(data)
}

// LoadFromYAML loads and validates a vmpilot configuration from YAML bytes.
func LoadFromYAML(data []byte) (*Config, error) {
	cfg, err := ReadYAML(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return cfg, nil
}

// ReadFile parses and normalizes a configuration without validating it.
// The validate command uses this to checklist defective configs instead of
// stopping at the first problem.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return ReadYAML(data)
}

// ReadYAML parses and normalizes configuration bytes without validating.
func ReadYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	cfg.Normalize()
	return &cfg, nil
}

// Normalize fills in defaults for fields that may be omitted.
func (c *Config) Normalize() {
	if c.Provider == "" {
		c.Provider = ProviderProxmox
	}
	if c.Proxmox.Port == 0 {
		c.Proxmox.Port = 8006
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
}

// Validate checks the configuration for defects. Targets that fail their
// id/kind/node checks are reported here, before any run begins.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderProxmox:
		if c.Proxmox.Host == "" {
			return fmt.Errorf("proxmox: host is required")
		}
		if !c.Proxmox.HasTokenAuth() && !c.Proxmox.HasPasswordAuth() {
			return fmt.Errorf("proxmox: either token_id/token_secret or user/realm/password must be set")
		}
	case ProviderLibvirt:
		// Socket is optional; the backend falls back to the system socket.
	default:
		return fmt.Errorf("unknown provider %q (expected %s or %s)", c.Provider, ProviderProxmox, ProviderLibvirt)
	}

	for i, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("targets[%d]: %w", i, err)
		}
	}

	return nil
}

// ValidTargets reports whether every launch target passes its format checks,
// along with one finding per defective target.
func ValidTargets(targets []LaunchTarget) (bool, []string) {
	var findings []string
	for i, t := range targets {
		if err := t.Validate(); err != nil {
			findings = append(findings, fmt.Sprintf("targets[%d]: %v", i, err))
		}
	}
	return len(findings) == 0, findings
}

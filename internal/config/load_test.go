package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfigYAML = `proxmox:
  host: pve.example.com
  user: pilot
  realm: pam
  password: secret
targets:
  - id: 100
    kind: qemu
    node: pve1
  - id: 101
    kind: lxc
    node: pve2
notifications:
  - telegram:
      token: bot-token
      chat_id: "12345"
  - email:
      disabled: true
      smtp_server: mail.example.com
app:
  lock_file: /tmp/vmpilot.lock
  log_level: debug
`

func TestLoadFromFile_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte(validConfigYAML), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Provider != ProviderProxmox {
		t.Errorf("Expected default provider %q, got %q", ProviderProxmox, cfg.Provider)
	}
	if cfg.Proxmox.Host != "pve.example.com" {
		t.Errorf("Expected host 'pve.example.com', got %q", cfg.Proxmox.Host)
	}
	if cfg.Proxmox.Port != 8006 {
		t.Errorf("Expected default port 8006, got %d", cfg.Proxmox.Port)
	}
	if len(cfg.Targets) != 2 {
		t.Fatalf("Expected 2 targets, got %d", len(cfg.Targets))
	}
	if cfg.Targets[0].ID != 100 || cfg.Targets[0].Kind != KindQEMU || cfg.Targets[0].Node != "pve1" {
		t.Errorf("Unexpected first target: %+v", cfg.Targets[0])
	}
	if len(cfg.Notifiers) != 2 {
		t.Fatalf("Expected 2 notifier entries, got %d", len(cfg.Notifiers))
	}
	tg, ok := cfg.Notifiers[0]["telegram"]
	if !ok {
		t.Fatalf("Expected first notifier entry to be telegram, got %+v", cfg.Notifiers[0])
	}
	if tg.GetString("token") != "bot-token" || tg.GetString("chat_id") != "12345" {
		t.Errorf("Unexpected telegram settings: %+v", tg)
	}
	mail := cfg.Notifiers[1]["email"]
	if !mail.Disabled() {
		t.Errorf("Expected email entry to be disabled")
	}
	if cfg.App.LockFile != "/tmp/vmpilot.lock" {
		t.Errorf("Unexpected lock file: %q", cfg.App.LockFile)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}

func TestLoadFromYAML_Defects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "targets: [",
			wantErr: "unmarshal",
		},
		{
			name: "zero target id",
			yaml: `proxmox:
  host: pve.example.com
  token_id: pilot@pam!ci
  token_secret: s3cret
targets:
  - id: 0
    kind: qemu
    node: pve1
`,
			wantErr: "positive integer",
		},
		{
			name: "unknown kind",
			yaml: `proxmox:
  host: pve.example.com
  token_id: pilot@pam!ci
  token_secret: s3cret
targets:
  - id: 100
    kind: docker
    node: pve1
`,
			wantErr: "unknown kind",
		},
		{
			name: "empty node",
			yaml: `proxmox:
  host: pve.example.com
  token_id: pilot@pam!ci
  token_secret: s3cret
targets:
  - id: 100
    kind: qemu
    node: ""
`,
			wantErr: "node must not be empty",
		},
		{
			name: "missing host",
			yaml: `proxmox:
  user: pilot
  realm: pam
  password: secret
targets: []
`,
			wantErr: "host is required",
		},
		{
			name: "missing auth",
			yaml: `proxmox:
  host: pve.example.com
targets: []
`,
			wantErr: "token_id/token_secret or user/realm/password",
		},
		{
			name: "unknown provider",
			yaml: `provider: vsphere
targets: []
`,
			wantErr: "unknown provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromYAML([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestLoadFromYAML_LibvirtProvider(t *testing.T) {
	yaml := `provider: libvirt
libvirt:
  socket: /run/libvirt/libvirt-sock
targets:
  - id: 1
    kind: qemu
    node: localhost
    name: web01
`
	cfg, err := LoadFromYAML([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}
	if cfg.Provider != ProviderLibvirt {
		t.Errorf("Expected provider libvirt, got %q", cfg.Provider)
	}
	if cfg.Targets[0].Name != "web01" {
		t.Errorf("Expected target name web01, got %q", cfg.Targets[0].Name)
	}
}

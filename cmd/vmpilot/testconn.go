package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmpilot/vmpilot/internal/config"
	"github.com/vmpilot/vmpilot/internal/libvirt"
	"github.com/vmpilot/vmpilot/internal/proxmox"
)

var testConnCmd = &cobra.Command{
	Use:   "test-conn",
	Short: "Test the control-plane connection",
	Long:  `Connect to the configured control plane and display version and node information.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		switch cfg.Provider {
		case config.ProviderProxmox:
			return testProxmoxConn(ctx, cfg)
		case config.ProviderLibvirt:
			return testLibvirtConn(cfg)
		default:
			return fmt.Errorf("unknown provider %q", cfg.Provider)
		}
	},
}

func testProxmoxConn(ctx context.Context, cfg *config.Config) error {
	fmt.Printf("Testing connection to %s...\n", cfg.Proxmox.Host)

	client, err := proxmox.New(cfg.Proxmox)
	if err != nil {
		return err
	}

	version, err := client.Version(ctx)
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	fmt.Printf("✓ Connected to Proxmox VE %s\n", version)

	// Report status of every node the targets reference.
	seen := map[string]bool{}
	for _, t := range cfg.Targets {
		if seen[t.Node] {
			continue
		}
		seen[t.Node] = true

		online, err := client.NodeOnline(ctx, t.Node)
		switch {
		case err != nil:
			fmt.Printf("✗ Node %s: %v\n", t.Node, err)
		case online:
			fmt.Printf("✓ Node %s: online\n", t.Node)
		default:
			fmt.Printf("✗ Node %s: offline\n", t.Node)
		}
	}

	fmt.Println("\nConnection test successful!")
	return nil
}

func testLibvirtConn(cfg *config.Config) error {
	fmt.Println("Testing libvirt connection...")

	client, err := libvirt.Connect(cfg.Libvirt.Socket, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to libvirt: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close libvirt connection: %v\n", closeErr)
		}
	}()

	if err := client.Ping(); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	fmt.Println("✓ Connected to libvirt daemon")
	fmt.Println("\nConnection test successful!")
	return nil
}

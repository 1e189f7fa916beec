package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmpilot/vmpilot/internal/config"
	"github.com/vmpilot/vmpilot/internal/libvirt"
	"github.com/vmpilot/vmpilot/internal/proxmox"
)

// targetStopper is the single operation the stop command needs from a
// backend. Both *proxmox.Client and *libvirt.Client satisfy it.
type targetStopper interface {
	Stop(ctx context.Context, t config.LaunchTarget) error
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Gracefully shut down the configured targets",
	Long: `Request a graceful shutdown of every configured target, in reverse
of the configured startup order. Targets that are already stopped are a no-op
on the control plane; a failure on one target does not abort the others.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		var client targetStopper
		switch cfg.Provider {
		case config.ProviderProxmox:
			client, err = proxmox.New(cfg.Proxmox)
			if err != nil {
				return err
			}
		case config.ProviderLibvirt:
			lv, err := libvirt.Connect(cfg.Libvirt.Socket, 5*time.Second)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := lv.Close(); closeErr != nil {
					fmt.Printf("Warning: failed to close libvirt connection: %v\n", closeErr)
				}
			}()
			client = lv
		default:
			return fmt.Errorf("unknown provider %q", cfg.Provider)
		}

		if failed := stopTargets(ctx, os.Stdout, client, cfg.Targets); failed > 0 {
			return fmt.Errorf("%d of %d targets failed to stop", failed, len(cfg.Targets))
		}
		return nil
	},
}

// stopTargets issues a shutdown for each target in reverse configured order
// and returns the number of failures.
func stopTargets(ctx context.Context, w io.Writer, client targetStopper, targets []config.LaunchTarget) int {
	failed := 0
	for i := len(targets) - 1; i >= 0; i-- {
		t := targets[i]
		if err := client.Stop(ctx, t); err != nil {
			fmt.Fprintf(w, "✗ %s %d on %s: %v\n", t.Kind, t.ID, t.Node, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "✓ %s %d on %s: shutdown requested\n", t.Kind, t.ID, t.Node)
	}
	return failed
}

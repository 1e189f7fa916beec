package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmpilot/vmpilot/internal/config"
	"github.com/vmpilot/vmpilot/internal/flow"
	"github.com/vmpilot/vmpilot/internal/libvirt"
	"github.com/vmpilot/vmpilot/internal/proxmox"
)

var (
	version = "dev"
	commit  = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vmpilot",
	Short: "vmpilot - VM fleet autostart tool",
	Long: `vmpilot starts a configured fleet of VMs and containers on a
virtualization cluster, gated by node-readiness checks, and reports the
outcome of each run through the configured notification channels.`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the vmpilot config file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(testConnCmd)
}

// newLogger builds the process logger from the configured level.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// backend bundles a constructed control-plane client with the readiness
// strategy and preflight check that fit it.
type backend struct {
	client    flow.Client
	readiness flow.Readiness
	preflight flow.Preflight
	close     func()
}

// buildBackend constructs the provider selected in the config. The libvirt
// provider connects here; a connection failure is a fatal run error for the
// caller to report.
func buildBackend(cfg *config.Config, log *slog.Logger) (*backend, error) {
	switch cfg.Provider {
	case config.ProviderProxmox:
		client, err := proxmox.New(cfg.Proxmox)
		if err != nil {
			return nil, err
		}
		return &backend{
			client:    client,
			readiness: flow.NewNodeReadiness(client, log),
			preflight: func(ctx context.Context) error {
				_, err := client.Version(ctx)
				return err
			},
			close: func() {},
		}, nil

	case config.ProviderLibvirt:
		client, err := libvirt.Connect(cfg.Libvirt.Socket, 5*time.Second)
		if err != nil {
			return nil, err
		}
		return &backend{
			client: client,
			readiness: flow.ReadyFunc(func(ctx context.Context, t config.LaunchTarget) bool {
				return client.Ping() == nil
			}),
			preflight: func(context.Context) error { return client.Ping() },
			close: func() {
				if err := client.Close(); err != nil {
					log.Warn("failed to close libvirt connection", "error", err)
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

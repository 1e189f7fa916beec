package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmpilot/vmpilot/internal/config"
	"github.com/vmpilot/vmpilot/internal/notify"
	"github.com/vmpilot/vmpilot/internal/output"
	"github.com/vmpilot/vmpilot/internal/proxmox"
)

var validateProbe bool

func init() {
	validateCmd.Flags().BoolVar(&validateProbe, "probe", false, "also probe the control-plane connection")
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the config file and print a checklist",
	Long: `Validate the config file without starting anything. Prints one
checklist section per config area; the command exits non-zero when any check
fails. With --probe, the control-plane connection is tested as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Validating %s...\n", configPath)

		cfg, err := config.ReadFile(configPath)
		if err != nil {
			return err
		}

		report := buildValidationReport(cfg)
		report.Render(os.Stdout)

		if !report.OK() {
			return fmt.Errorf("config validated with errors")
		}
		fmt.Println("Config validated successfully.")
		return nil
	},
}

func buildValidationReport(cfg *config.Config) *output.Report {
	report := &output.Report{}

	if cfg.Provider == config.ProviderProxmox {
		s := report.Section("Proxmox settings")
		if cfg.Proxmox.Host == "" {
			s.Add("host", "missing", false)
		} else {
			s.Add("host", "Ok", true)
		}

		switch {
		case cfg.Proxmox.HasTokenAuth():
			s.Add("authentication", "Ok (token-based)", true)
		case cfg.Proxmox.HasPasswordAuth():
			s.Add("authentication", "Ok (user-password-based)", true)
		default:
			s.Add("authentication", "missing authentication information", false)
		}

		if validateProbe && cfg.Proxmox.Host != "" {
			status, ok := probeProxmox(cfg.Proxmox)
			s.Add("connection", status, ok)
		}
	}

	targets := report.Section("Start settings")
	// An empty target list is a no-op run, not a defect.
	count := fmt.Sprintf("%d found", len(cfg.Targets))
	if len(cfg.Targets) == 0 {
		count = "none configured"
	}
	targets.Add("targets", count, true)
	if ok, findings := config.ValidTargets(cfg.Targets); !ok {
		for _, f := range findings {
			targets.Add("target", f, false)
		}
	}

	channels := report.Section("Notifications")
	registry := notify.DefaultRegistry()
	if len(cfg.Notifiers) == 0 {
		channels.Add("channels", "none configured", true)
	}
	for _, entry := range cfg.Notifiers {
		for name, settings := range entry {
			switch {
			case settings.Disabled():
				channels.Add(name, "disabled", true)
			default:
				_, known := registry[name]
				status := "Ok"
				if !known {
					status = "unrecognized channel (will be ignored)"
				}
				channels.Add(name, status, true)
			}
		}
	}

	return report
}

func probeProxmox(settings config.ProxmoxSettings) (string, bool) {
	client, err := proxmox.New(settings)
	if err != nil {
		return err.Error(), false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	version, err := client.Version(ctx)
	if err != nil {
		return fmt.Sprintf("unable to connect: %v", err), false
	}
	return fmt.Sprintf("Ok (Proxmox VE %s)", version), true
}

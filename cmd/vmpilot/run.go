package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmpilot/vmpilot/internal/config"
	"github.com/vmpilot/vmpilot/internal/flow"
	"github.com/vmpilot/vmpilot/internal/notify"
	"github.com/vmpilot/vmpilot/internal/runlock"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one startup run over the configured targets",
	Long: `Execute one startup run: every configured target is checked and
started in order, per-target failures are isolated, and the accumulated run
report is flushed to every enabled notification channel exactly once.

The process exits non-zero when the run hit a fatal error outside the
per-target loop; individual target failures do not change the exit status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return err
		}

		log := newLogger(cfg.App.LogLevel)
		log.Info("vmpilot starting", "config", configPath, "provider", cfg.Provider)

		lock, err := runlock.Acquire(cfg.App.LockFile)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				log.Warn("failed to release run lock", "error", err)
			}
		}()

		ctx := context.Background()

		var notifier flow.Notifier
		var manager *notify.Manager
		if len(cfg.Notifiers) > 0 {
			manager, err = notify.NewManager(cfg.Notifiers, notify.DefaultRegistry(), log)
			if err != nil {
				return err
			}
			notifier = manager
		}

		be, err := buildBackend(cfg, log)
		if err != nil {
			// Backend construction failures happen before the executor
			// exists; report them through the same fatal path.
			if manager != nil {
				manager.Fatal(err.Error())
				manager.Send(ctx)
			}
			return err
		}
		defer be.close()

		starter := flow.NewStarter(be.client, be.readiness, log)
		executor := flow.NewExecutor(starter, notifier, be.preflight, log)

		sum := executor.Run(ctx, cfg.Targets)

		fmt.Printf("Run %s: %d started, %d already running, %d failed\n",
			sum.RunID, sum.Started(), sum.Skipped(), sum.Failed())

		if sum.Fatal != nil {
			return fmt.Errorf("run failed: %w", sum.Fatal)
		}
		return nil
	},
}

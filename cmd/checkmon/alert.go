package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/checkmon/checkmon/internal/alert"
	"github.com/checkmon/checkmon/internal/check"
	"github.com/checkmon/checkmon/internal/config"
	"github.com/checkmon/checkmon/internal/httpapi"
)

var statusAddrFlag string

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Run checks forever and dispatch alerts",
	Long: `Run every selected check on its alert cadence and post active
alerts to the configured Alertmanager-compatible sink. Failing checks
are rechecked at the fast recheck interval and never given up on;
healthy checks are re-verified at the slower check interval.

Runs until interrupted; on shutdown the active-alert set is flushed to
the sink one last time.`,
	RunE: runAlert,
}

func init() {
	rootCmd.AddCommand(alertCmd)
	alertCmd.Flags().StringVar(&statusAddrFlag, "status-addr", "", "serve /healthz, /api/checks and /metrics on this address")
}

func runAlert(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	terms, err := parseSelectors()
	if err != nil {
		return err
	}

	file, err := loadConfig()
	if err != nil {
		return err
	}
	sinkCfg, statusAddr, err := file.AlertConfig()
	if err != nil {
		return err
	}
	defs, err := file.Resolve(config.ModeAlert, terms)
	if err != nil {
		return err
	}
	if statusAddrFlag != "" {
		statusAddr = statusAddrFlag
	}

	registry := check.NewRegistry(defs)
	mux := check.NewMux()

	if statusAddr != "" {
		srv := httpapi.NewServer(logger, registry)
		go func() {
			if err := srv.Run(statusAddr); err != nil {
				logger.Error("status_server_failed", zap.Error(err))
			}
		}()
	}

	dispatcher := alert.NewDispatcher(logger, sinkCfg, registry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		dispatcher.Run(mux.Updates())
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("alert_mode_started", zap.Int("checks", len(defs)))
	check.RunAlert(ctx, defs, mux)

	// mux is closed; wait for the dispatcher's final flush
	<-done
	logger.Info("alert_mode_stopped")
	return nil
}

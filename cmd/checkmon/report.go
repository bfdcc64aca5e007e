package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/checkmon/checkmon/internal/check"
	"github.com/checkmon/checkmon/internal/config"
	"github.com/checkmon/checkmon/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run every check once and report pass/fail",
	Long: `Run every selected check to one terminal outcome, printing each
status update as it arrives. Exits non-zero when any check fails.

Examples:
  checkmon report -c checks.yaml
  cat checks.json | checkmon report -c -
  checkmon report -c checks.yaml --on hostname:web1,web2`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
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
	defs, err := file.Resolve(config.ModeReport, terms)
	if err != nil {
		return err
	}

	registry := check.NewRegistry(defs)
	mux := check.NewMux()

	reporter := report.New(logger, registry, os.Stdout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		reporter.Run(mux.Updates())
	}()

	failures := check.RunReport(context.Background(), defs, mux)
	<-done

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	return nil
}

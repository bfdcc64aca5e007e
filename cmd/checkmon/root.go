package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/checkmon/checkmon/internal/config"
	"github.com/checkmon/checkmon/internal/logging"
	"github.com/checkmon/checkmon/internal/selector"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	logDir  string
	onTerms []string
)

var rootCmd = &cobra.Command{
	Use:   "checkmon",
	Short: "checkmon - health-check runner and alert dispatcher",
	Long: `checkmon executes a configured set of probes (HTTP, DNS, remote
command) with per-check retry and backoff.

In report mode every check runs to one pass/fail outcome and the exit
status reflects the number of failures. In alert mode checks run
forever and failures are posted as alerts to an Alertmanager-compatible
sink, deduplicated and re-announced until they resolve.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "checks.yaml", "check config file ('-' reads stdin)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "also write JSON logs to this directory")
	rootCmd.PersistentFlags().StringArrayVar(&onTerms, "on", nil, "label selector, e.g. hostname:web1,web2 or rack:/r2.*/ (repeatable, all must match)")
}

func newLogger() (*zap.Logger, error) {
	console := logging.NewConsole(verbose)
	if logDir == "" {
		return console, nil
	}
	file, err := logging.NewFile(logDir)
	if err != nil {
		return nil, err
	}
	return zap.New(zapcore.NewTee(console.Core(), file.Core())), nil
}

func parseSelectors() ([]*selector.Term, error) {
	terms := make([]*selector.Term, 0, len(onTerms))
	for _, raw := range onTerms {
		t, err := selector.Parse(raw)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, nil
}

func loadConfig() (*config.File, error) {
	return config.Load(cfgFile)
}

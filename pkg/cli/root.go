// Package cli implements the operamock command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/operamock/operamock/pkg/config"
	"github.com/operamock/operamock/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	cfgFile    string
	logLevel   string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "operamock",
	Short: "operamock is a local mock of the OPERA hotel-reservation API",
	Long: `operamock runs a local stand-in for the OPERA hotel-reservation API so
client integrations can be developed and tested without touching the real
system. It serves the booking lifecycle (availability, create, update,
check-in, check-out, cancel), documents itself at /docs, and ships a demo
sequencer and a validator for the mock-to-OPERA endpoint mapping.

Configuration can be provided via flags, environment variables (OPERAMOCK_*),
or a configuration file passed with --config.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}

// loadConfig resolves the effective configuration from file, environment,
// and flags, in that order of increasing precedence.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// newLogger builds the process logger from the effective configuration.
func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
	})
}

package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/operamock/operamock/pkg/opera"
)

var (
	servePort int
	serveHost string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock OPERA API server",
	Long: `Start the mock OPERA API server and block until interrupted.

The server persists bookings to a JSON database file, captures every
interesting exchange to validation-output.json, and emits a booking_created
event file on each new booking. Interactive documentation is served at /docs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("host") {
			cfg.Host = serveHost
		}
		if cmd.Flags().Changed("db") {
			cfg.DBFile = serveDB
		}

		log := newLogger(cfg)
		srv, err := opera.New(cfg, opera.WithLogger(log))
		if err != nil {
			return err
		}
		if err := srv.Listen(); err != nil {
			return err
		}

		fmt.Printf("Mock OPERA API listening on %s\n", cfg.BaseURL())
		fmt.Printf("Docs available at %s\n", cfg.DocsURL())

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serveErr := make(chan error, 1)
		go func() { serveErr <- srv.Serve() }()

		select {
		case err := <-serveErr:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return <-serveErr
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind (overrides config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Booking database file (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

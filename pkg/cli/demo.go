package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/operamock/operamock/pkg/demo"
)

var (
	demoNoServer bool
	demoTimeout  time.Duration
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the end-to-end demo sequence",
	Long: `Run the end-to-end demo sequence:

  1. Start the mock OPERA API server
  2. Wait for it to become ready (health probe with backoff)
  3. Run the full booking lifecycle against it
  4. Validate the mock-to-OPERA endpoint mapping
  5. Print the docs URL for manual exploration

The sequence halts at the first failing step and always shuts the server
down before exiting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		opts := []demo.Option{
			demo.WithLogger(log),
			demo.WithReadinessTimeout(demoTimeout),
		}
		if demoNoServer {
			opts = append(opts, demo.WithoutServer())
		}

		result := demo.New(cfg, opts...).Run(cmd.Context())

		if jsonOutput {
			data, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(data))
		}
		if result.Failed() {
			return errors.New("demo sequence failed")
		}
		return nil
	},
}

func init() {
	demoCmd.Flags().BoolVar(&demoNoServer, "no-server", false, "Do not launch the server, probe the configured address instead")
	demoCmd.Flags().DurationVar(&demoTimeout, "readiness-timeout", 10*time.Second, "How long to wait for the server to become ready")
	rootCmd.AddCommand(demoCmd)
}

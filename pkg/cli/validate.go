package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/operamock/operamock/pkg/recording"
	"github.com/operamock/operamock/pkg/validate"
)

var (
	validateBaseURL    string
	validateStaticOnly bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the endpoint mapping and the live server",
	Long: `Validate the mock-to-OPERA endpoint mapping.

Static checks always run: uniqueness of mock endpoints and placeholder
correspondence between mock and OPERA paths. Unless --static-only is given,
the full booking lifecycle is then exercised against the server at
--base-url and every exchange is written to the validation output file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		if err := validate.CheckMapping(); err != nil {
			return err
		}
		fmt.Println("Endpoint mapping: ok")

		if validateStaticOnly {
			return nil
		}

		baseURL := validateBaseURL
		if baseURL == "" {
			baseURL = cfg.BaseURL()
		}
		client := validate.NewClient(baseURL)

		if err := client.Health(cmd.Context()); err != nil {
			return fmt.Errorf("server at %s is not reachable (run 'operamock serve' first, or pass --static-only): %w", baseURL, err)
		}

		rec := recording.New(cfg.ValidationOutput)
		if err := validate.RunFlow(cmd.Context(), client, rec, log); err != nil {
			return err
		}
		if err := validate.CheckServed(cmd.Context(), baseURL); err != nil {
			return err
		}

		fmt.Printf("Booking flow: ok\nValidation log written to %s\n", rec.Path())
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateBaseURL, "base-url", "", "Server base URL (default: from config)")
	validateCmd.Flags().BoolVar(&validateStaticOnly, "static-only", false, "Only run the static mapping checks")
	rootCmd.AddCommand(validateCmd)
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/operamock/operamock/pkg/mapping"
)

var mappingMarkdown bool

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Show and check the mock-to-OPERA endpoint mapping",
}

var mappingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the endpoint mapping table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := mapping.Entries()

		if jsonOutput {
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		if mappingMarkdown {
			fmt.Print(mapping.Markdown())
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Mock Endpoint", "OPERA Endpoint", "Notes"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetCenterSeparator("")
		table.SetColumnSeparator("")
		table.SetRowSeparator("")
		table.SetHeaderLine(false)
		table.SetTablePadding("  ")
		table.SetNoWhiteSpace(true)

		for _, e := range entries {
			table.Append([]string{
				e.MockMethod + " " + e.MockPath,
				e.RealMethod + " " + e.RealPath,
				e.Note,
			})
		}
		table.Render()
		return nil
	},
}

var mappingCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the endpoint mapping invariants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		errs := mapping.Check()
		if len(errs) == 0 {
			fmt.Println("Endpoint mapping: ok")
			return nil
		}
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "  - %v\n", err)
		}
		return errors.New("endpoint mapping check failed")
	},
}

func init() {
	mappingListCmd.Flags().BoolVar(&mappingMarkdown, "markdown", false, "Render the table as markdown")
	mappingCmd.AddCommand(mappingListCmd)
	mappingCmd.AddCommand(mappingCheckCmd)
	rootCmd.AddCommand(mappingCmd)
}

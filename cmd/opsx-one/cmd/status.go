package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gisketch/opsx-one/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how each opsx-one file compares to its template",
	Long: `Shows every managed file with its state: synced (matches the template),
merged (the OpenSpec section lives inside an existing file), drifted (edited
since it was written) or missing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		statuses, err := client.Status(cmd.Context())
		if err != nil {
			return err
		}

		if verbose {
			fmt.Fprintf(stdout, "%-45s %-9s %s\n", "FILE", "STATE", "TEMPLATE")
			for _, s := range statuses {
				fmt.Fprintf(stdout, "%-45s %-9s %s\n", s.Destination, s.State, s.SourceID)
			}
			return nil
		}
		ui.StatusReport(stdout, statuses)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

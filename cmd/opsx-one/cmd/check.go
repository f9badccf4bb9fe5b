package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that opsx-one files match the templates",
	Long: `Hashes every managed file and compares it with the rendered template.
Reports drifted and missing files.
Exit 0 if everything matches; exit non-zero otherwise. Suitable for CI pipelines.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		result, err := client.Check(cmd.Context())
		if err != nil {
			return err
		}

		if result.Clean {
			info("All files match the templates.")
			return nil
		}

		for _, d := range result.Drifted {
			info("  drifted   %s", d.Destination)
			detail("expected: %s", d.Expected)
			detail("actual:   %s", d.Actual)
		}
		for _, m := range result.Missing {
			info("  missing   %s", m)
		}
		for _, e := range result.Errors {
			errorf("%s: %s", e.Destination, e.Err)
		}

		total := len(result.Drifted) + len(result.Missing) + len(result.Errors)
		return fmt.Errorf("check failed: %d file(s) out of sync", total)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

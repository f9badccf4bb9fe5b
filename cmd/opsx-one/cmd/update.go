package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gisketch/opsx-one/internal/engine"
)

var updateForce bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Replace opsx-one files in the current project",
	Long: `Replaces the OPSX One agent, prompt and copilot-instructions.md with the
current templates. Local edits to these files are lost.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, engine.ModeUpdate, updateForce)
	},
}

func init() {
	// update always replaces; the flag is accepted for symmetry with init.
	updateCmd.Flags().BoolVar(&updateForce, "force", false, "overwrite existing files")
	rootCmd.AddCommand(updateCmd)
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gisketch/opsx-one/internal/engine"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up opsx-one in the current project",
	Long: `Copies the OPSX One agent and prompt into the project's config directory
(.github by default) and creates copilot-instructions.md. If the instructions
file already exists, the OpenSpec section is appended instead, unless the file
already mentions OpenSpec.

Existing files are kept. Use --force to overwrite them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, engine.ModeInit, initForce)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

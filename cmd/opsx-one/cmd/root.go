package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gisketch/opsx-one/internal/logging"
	"github.com/gisketch/opsx-one/internal/ui"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath   string
	projectDir   string
	flavorName   string
	templatesDir string
	strict       bool
	verbose      bool
	quiet        bool
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "opsx-one",
	Short: "One-command OpenSpec lifecycle for VS Code Copilot Chat",
	Long: `opsx-one installs the OPSX One agent, its slash-command prompt and the
OpenSpec workspace instructions into a project.

  opsx-one init      Set up opsx-one in the current project
  opsx-one update    Replace opsx-one files in the current project

Prerequisites:
  - OpenSpec CLI: npm install -g @fission-ai/openspec@latest
  - Initialize OpenSpec: openspec init --tools github-copilot --force
  - VS Code with GitHub Copilot extension`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.ConfigureColor(noColor, os.Stdout)
		logger := logging.New(logging.Options{Verbose: verbose, Quiet: quiet})
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(logging.NewContext(ctx, logger.With(zap.String(logging.KeyOperation, cmd.Name()))))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.FromContext(cmd.Context()).Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(stdout, "opsx-one %s\n", version)
		fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		fmt.Fprintf(stdout, "  built:   %s\n", date)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to config file (default: opsx-one.yaml in the project)")
	pf.StringVar(&projectDir, "dir", "", "project root (default: current directory)")
	pf.StringVar(&flavorName, "flavor", "", "runtime flavor: vscode, cli or a configured flavor")
	pf.StringVar(&templatesDir, "templates", "", "directory whose templates take precedence over the built-in ones")
	pf.BoolVar(&strict, "strict", false, "exit non-zero when any file fails")
	pf.BoolVar(&verbose, "verbose", false, "detailed output")
	pf.BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		errorf("%s", err)
		if isUnknownCommand(err) {
			fmt.Fprintln(stderr, "  Run 'opsx-one help' for usage.")
		}
		return err
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gisketch/opsx-one/internal/engine"
	"github.com/gisketch/opsx-one/internal/ui"
	"github.com/gisketch/opsx-one/pkg/opsxone"
)

const nextSteps = `
  Reload VS Code (Developer: Reload Window) to activate.

  Usage (Agent, recommended):
    Select "OPSX One" from the agent picker dropdown in Chat

  Usage (Slash command fallback):
    Open Copilot Chat → type /opsx-one

  Prerequisites (if not done already):
    npm install -g @fission-ai/openspec@latest
    openspec init --tools github-copilot --force`

// runSync runs init or update and prints one line per file.
func runSync(cmd *cobra.Command, mode engine.Mode, force bool) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	info("\n  %s\n", ui.Bold("opsx-one "+mode.String()))

	var result *opsxone.SyncResult
	if mode == engine.ModeUpdate {
		result, err = client.Update(cmd.Context(), opsxone.UpdateOptions{Force: force})
	} else {
		result, err = client.Init(cmd.Context(), opsxone.InitOptions{Force: force})
	}
	if err != nil {
		return err
	}

	if quiet {
		for _, o := range result.Outcomes {
			if o.Status == engine.StatusFailed {
				fmt.Fprintln(stderr, "  "+ui.OutcomeLine(o))
			}
		}
	} else {
		ui.Report(stdout, result)
	}
	detail("%s", ui.Summary(result))

	if result.Failed() > 0 && strictMode(client) {
		return fmt.Errorf("%d file(s) failed", result.Failed())
	}

	if result.Failed() > 0 {
		info("\n  Finished with errors. Fix the files marked %s and run it again.", ui.SymbolError)
	} else if mode == engine.ModeUpdate {
		info("\n  Done! OPSX One files were updated in this project.")
	} else {
		info("\n  Done! OPSX One is set up in this project.")
	}
	info("%s\n", nextSteps)
	return nil
}

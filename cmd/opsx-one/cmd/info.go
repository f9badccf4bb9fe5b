package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the resolved opsx-one setup",
	Long: `Displays the opsx-one version, the config files that were consulted, the
selected flavor, where each file will be written, the template source and the
known flavors.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		in := client.Info()

		fmt.Fprintf(stdout, "opsx-one %s\n", version)
		fmt.Fprintf(stdout, "  project:       %s\n", in.ProjectRoot)

		if len(in.Layers) == 0 {
			fmt.Fprintln(stdout, "  config:        (defaults)")
		} else {
			fmt.Fprintln(stdout, "  config chain:")
			for _, layer := range in.Layers {
				status := "not found"
				if layer.Loaded {
					status = "loaded"
				}
				fmt.Fprintf(stdout, "    %-10s %s (%s)\n", layer.Level+":", layer.Path, status)
			}
		}

		fmt.Fprintf(stdout, "  flavor:        %s\n", in.Flavor)
		fmt.Fprintf(stdout, "  templates:     %s\n", in.Templates)
		for _, id := range in.Overridden {
			fmt.Fprintf(stdout, "    overrides    %s\n", id)
		}
		for _, id := range in.Ignored {
			fmt.Fprintf(stdout, "    ignored      %s (not a known template)\n", id)
		}
		fmt.Fprintf(stdout, "  markers:       %s\n", in.MarkerMode)
		fmt.Fprintf(stdout, "  strict:        %t\n", in.Strict || strict)

		fmt.Fprintln(stdout, "\nFiles:")
		for _, d := range in.Destinations {
			fmt.Fprintf(stdout, "  %s\n", d)
		}

		fmt.Fprintln(stdout, "\nFlavors:")
		for _, f := range in.Flavors {
			custom := ""
			if f.Custom {
				custom = " (custom)"
			}
			fmt.Fprintf(stdout, "  %-15s → %s%s\n", f.Name, f.ConfigDir, custom)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

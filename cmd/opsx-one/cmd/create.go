package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gisketch/opsx-one/internal/starter"
	"github.com/gisketch/opsx-one/internal/ui"
	"github.com/gisketch/opsx-one/pkg/opsxone"
)

var (
	createRepo   string
	createRef    string
	createName   string
	createNoInit bool
)

// newBootstrapper is replaced in tests.
var newBootstrapper = starter.New

var createCmd = &cobra.Command{
	Use:   "create <dir>",
	Short: "Create a new project from the starter kit",
	Long: `Clones the starter-kit repository into <dir>, drops its git history, starts
a fresh repository and sets the package.json name. The opsx-one files are then
installed into the new project unless --no-init is given.

The repository comes from --repo or starter.repo in opsx-one.yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		repo, ref := client.Starter()
		if createRepo != "" {
			repo, ref = createRepo, ""
		}
		if createRef != "" {
			ref = createRef
		}

		result, err := newBootstrapper().Create(cmd.Context(), starter.Options{
			Repo: repo,
			Ref:  ref,
			Dir:  args[0],
			Name: createName,
		})
		if err != nil {
			return err
		}
		info("  %s Created %s (%s)", ui.Success(ui.SymbolSuccess), result.Dir, result.Name)

		if createNoInit {
			info("\n  Next: cd %s && opsx-one init", result.Dir)
			return nil
		}

		project, err := opsxone.New(opsxone.Options{
			ProjectRoot:  result.Dir,
			NoInherit:    noInheritEnv(),
			Flavor:       flavorName,
			TemplatesDir: templatesDir,
		})
		if err != nil {
			return err
		}
		synced, err := project.Init(cmd.Context(), opsxone.InitOptions{})
		if err != nil {
			return err
		}
		if !quiet {
			ui.Report(stdout, synced)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createRepo, "repo", "", "starter-kit repository URL or path")
	createCmd.Flags().StringVar(&createRef, "ref", "", "branch or tag to clone")
	createCmd.Flags().StringVar(&createName, "name", "", "project name (default: directory name)")
	createCmd.Flags().BoolVar(&createNoInit, "no-init", false, "do not install the opsx-one files")
	rootCmd.AddCommand(createCmd)
}

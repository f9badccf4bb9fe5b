package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gisketch/opsx-one/internal/config"
	"github.com/gisketch/opsx-one/pkg/opsxone"
)

// Output streams and environment lookups, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	noInheritEnv = config.EnvNoInherit
)

// newClient builds a library client from the global flags.
func newClient() (*opsxone.Client, error) {
	return opsxone.New(opsxone.Options{
		ProjectRoot:  projectDir,
		ConfigPath:   configPath,
		NoInherit:    noInheritEnv(),
		Flavor:       flavorName,
		TemplatesDir: templatesDir,
	})
}

// strictMode reports whether failed entries should fail the command.
func strictMode(c *opsxone.Client) bool {
	return strict || c.Strict()
}

func isUnknownCommand(err error) bool {
	return strings.HasPrefix(err.Error(), "unknown command")
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Fprintf(stdout, "  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(stderr, "error: "+format+"\n", args...)
}

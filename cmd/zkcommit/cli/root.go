// Package cli holds the zkcommit cobra commands
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zkcommit/internal/platform/config"
)

// envPrefix namespaces every zkcommit setting
const envPrefix = "ZKCOMMIT_"

// ExitError carries a process exit status out of a command
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the status the process should exit with
func (e *ExitError) ExitCode() int { return e.Code }

// New builds the root command
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "zkcommit",
		Short:         "Prove and verify signed GitHub commits with a zero-knowledge proof service.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServe(), newRun(), newVersion())
	return cmd
}

// conf returns the prefixed config root
func conf() config.Conf { return config.New().Prefix(envPrefix) }

// setEnv lets a non-empty flag value override the matching env key
func setEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(envPrefix+key, val)
	}
}

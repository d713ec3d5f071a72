package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmyui/remove-unused-imports-py/pkg/types"
	"github.com/cmyui/remove-unused-imports-py/pkg/version"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "uiscan",
	Short:   "Find and remove unused imports in Python projects",
	Long:    "uiscan analyzes Python projects for unused imports. It evaluates each file\nin isolation and then runs a cross-file cascade that accounts for\nre-exports, so removing one file's dead imports can unmask another's.",
	Version: version.Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.SilenceErrors = true
}

// Execute runs the root command and exits with code 1 on error.
// ExitError is handled specially: its Code is used as the exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *types.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

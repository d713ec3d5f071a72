package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cmyui/remove-unused-imports-py/internal/config"
	"github.com/cmyui/remove-unused-imports-py/internal/pipeline"
	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

var (
	configPath   string
	jsonOutput   bool
	noCascade    bool
	failOnUnused bool
	fix          bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Analyze a Python project for unused imports",
	Long: `Analyze a Python project directory for unused imports.

Every file is checked in isolation first (C1-C4), then, unless
--no-cascade is given, a cross-file fixed point (C5-C7) accounts for
re-exports: a name unused in the file that defines it may still be
"used" because another file imports it from there and uses it.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("cannot resolve path: %w", err)
		}
		if err := validateProject(dir); err != nil {
			return err
		}

		projectCfg, err := config.Load(dir, configPath)
		if err != nil {
			return fmt.Errorf("load project config: %w", err)
		}

		cfg := projectCfg.ApplyTo(types.DefaultConfig())
		if noCascade {
			cfg.Cascade = false
		}

		spinner := pipeline.NewSpinner(os.Stderr)
		onProgress := func(stage, detail string) {
			spinner.Update(detail)
			if verbose {
				fmt.Fprintf(os.Stderr, "[%s] %s\n", stage, detail)
			}
		}
		spinner.Start("Scanning...")

		p := pipeline.New(cmd.OutOrStdout(), cfg, projectCfg, jsonOutput, failOnUnused, fix, onProgress)
		err = p.Run(dir)
		if err != nil {
			spinner.Stop("")
			return err
		}
		spinner.Stop("Done.")
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&configPath, "config", "", "path to .unusedimportsrc.yml project config file")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
	analyzeCmd.Flags().BoolVar(&noCascade, "no-cascade", false, "skip the cross-file cascade, report single-file results only")
	analyzeCmd.Flags().BoolVar(&failOnUnused, "fail-on-unused", false, "exit with a non-zero status if any unused imports are found")
	analyzeCmd.Flags().BoolVar(&fix, "fix", false, "remove confirmed-unused imports from disk after reporting them")
	rootCmd.AddCommand(analyzeCmd)
}

// validateProject checks that dir exists, is a directory, and contains
// at least one recognizable Python project indicator or source file.
func validateProject(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory not found: %s", dir)
	}
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	indicators := []string{"pyproject.toml", "setup.py", "setup.cfg", "requirements.txt", ".unusedimportsrc.yml"}
	for _, f := range indicators {
		if _, err := os.Stat(filepath.Join(dir, f)); err == nil {
			return nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".py" {
			return nil
		}
	}

	return fmt.Errorf("no Python project found in: %s\nExpected a pyproject.toml, setup.py, or at least one .py file", dir)
}

// Package output renders analysis results to terminal and JSON formats.
//
// Terminal rendering uses fatih/color for file-path and import highlighting,
// and honors NO_COLOR per https://no-color.org, the same convention the
// rest of this project's terminal output follows.
package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

var (
	fileColor   = color.New(color.FgCyan, color.Bold)
	unusedColor = color.New(color.FgYellow)
	countColor  = color.New(color.FgRed, color.Bold)
	okColor     = color.New(color.FgGreen)
)

// RenderUnusedText renders single-file unused-import results (cascade
// disabled) as colorized terminal output.
func RenderUnusedText(w io.Writer, unused map[string][]types.ImportBinding) {
	if len(unused) == 0 {
		okColor.Fprintln(w, "no unused imports found")
		return
	}

	files := sortedKeys(unused)
	total := 0
	for _, file := range files {
		imports := unused[file]
		fileColor.Fprintf(w, "%s\n", file)
		for _, imp := range imports {
			printImportLine(w, imp)
			total++
		}
	}
	fmt.Fprintln(w)
	countColor.Fprintf(w, "%d unused import(s) in %d file(s)\n", total, len(files))
}

// RenderCrossFileText renders full cross-file cascade results as
// colorized terminal output: unused imports followed by a summary line,
// then implicit re-exports, external usage, and circular imports.
func RenderCrossFileText(w io.Writer, result types.CrossFileResult) {
	if len(result.UnusedImports) == 0 {
		okColor.Fprintln(w, "no unused imports found")
	} else {
		files := sortedKeys(result.UnusedImports)
		total := 0
		for _, file := range files {
			imports := result.UnusedImports[file]
			fileColor.Fprintf(w, "%s\n", file)
			for _, imp := range imports {
				printImportLine(w, imp)
				total++
			}
		}
		fmt.Fprintln(w)
		countColor.Fprintf(w, "%d unused import(s) in %d file(s)\n", total, len(files))
	}

	if len(result.ImplicitReexports) > 0 {
		fmt.Fprintln(w)
		unusedColor.Fprintln(w, "implicit re-exports (used elsewhere, missing from __all__):")
		for _, r := range result.ImplicitReexports {
			users := sortedStringSet(r.UsedBy)
			fmt.Fprintf(w, "  %s: %s (used by %d file(s))\n", r.SourceFile, r.ImportName, len(users))
		}
	}

	if len(result.ExternalUsage) > 0 {
		fmt.Fprintln(w)
		unusedColor.Fprintln(w, "external usage:")
		modules := make([]string, 0, len(result.ExternalUsage))
		for m := range result.ExternalUsage {
			modules = append(modules, m)
		}
		sort.Strings(modules)
		for _, m := range modules {
			users := sortedStringSet(result.ExternalUsage[m])
			fmt.Fprintf(w, "  %s (used by %d file(s))\n", m, len(users))
		}
	}

	if len(result.CircularImports) > 0 {
		fmt.Fprintln(w)
		unusedColor.Fprintln(w, "circular imports:")
		for _, cycle := range result.CircularImports {
			fmt.Fprintf(w, "  %s\n", joinCycle(cycle))
		}
	}
}

func printImportLine(w io.Writer, imp types.ImportBinding) {
	name := imp.LocalName
	if imp.IsStar {
		name = "*"
	}
	unusedColor.Fprintf(w, "  %d:%d  %s", imp.Position.StartLine, imp.Position.StartCol+1, name)
	if imp.SourceModule != "" {
		fmt.Fprintf(w, "  (from %s)", imp.SourceModule)
	}
	fmt.Fprintln(w)
}

func sortedKeys(m map[string][]types.ImportBinding) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringSet(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinCycle(cycle []string) string {
	out := ""
	for i, c := range cycle {
		if i > 0 {
			out += " -> "
		}
		out += c
	}
	return out
}

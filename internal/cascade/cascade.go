// Package cascade implements the cross-file cascade analysis (spec C7):
// a fixed-point iteration that accounts for re-exports when deciding
// whether an import is truly unused across the whole project. Ported
// directly from the reference implementation's CrossFileAnalyzer.
package cascade

import (
	"sort"

	"github.com/cmyui/remove-unused-imports-py/internal/graph"
	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

// Input is everything the cascade needs: every file's single-file unused
// imports, every file's module summary, and the project's import graph.
type Input struct {
	SingleFileUnused map[string][]types.ImportBinding
	Modules          map[string]types.ModuleInfo
	Graph            *graph.Graph
}

// Analyze runs the fixed-point cascade, then implicit re-export
// detection, external usage aggregation, and cycle detection.
//
// The cascade handles chains like: A imports X from B (unused in A); B
// imports X from C (only re-exported to A). When A's import is removed,
// B's import becomes unused too — so this loops until no new removal is
// discovered in a full pass.
func Analyze(in Input) types.CrossFileResult {
	allRemoved := make(map[string]map[string]bool)

	for changed := true; changed; {
		changed = false
		reexported := findReexportedImports(in, allRemoved)

		for file, unused := range in.SingleFileUnused {
			reexportedNames := reexported[file]
			for _, imp := range unused {
				if reexportedNames[imp.LocalName] {
					continue
				}
				if allRemoved[file] == nil {
					allRemoved[file] = make(map[string]bool)
				}
				if !allRemoved[file][imp.LocalName] {
					allRemoved[file][imp.LocalName] = true
					changed = true
				}
			}
		}
	}

	result := types.CrossFileResult{
		UnusedImports: make(map[string][]types.ImportBinding),
		ExternalUsage: make(map[string]map[string]bool),
	}

	for file, removedNames := range allRemoved {
		var unused []types.ImportBinding
		for _, imp := range in.SingleFileUnused[file] {
			if removedNames[imp.LocalName] {
				unused = append(unused, imp)
			}
		}
		if len(unused) > 0 {
			result.UnusedImports[file] = unused
		}
	}

	finalReexported := findReexportedImports(in, allRemoved)
	result.ImplicitReexports = findImplicitReexports(in, finalReexported, allRemoved)
	result.ExternalUsage = aggregateExternalUsage(in)
	result.CircularImports = in.Graph.FindCycles()

	return result
}

// findReexportedImports finds, for every project file, which of its
// import names are actually consumed by some other file that imports
// from it — i.e. names this file re-exports. removed holds the names
// "virtually removed" from each importer so far in the fixed point.
func findReexportedImports(in Input, removed map[string]map[string]bool) map[string]map[string]bool {
	reexported := make(map[string]map[string]bool)

	for _, edge := range in.Graph.Edges {
		if edge.IsExternal || edge.Imported == "" {
			continue
		}

		importerRemoved := removed[edge.Importer]
		active := make(map[string]bool, len(edge.Names))
		for name := range edge.Names {
			if importerRemoved == nil || !importerRemoved[name] {
				active[name] = true
			}
		}
		if len(active) == 0 {
			continue
		}

		module, ok := in.Modules[edge.Imported]
		if !ok {
			continue
		}

		importNamesInFile := make(map[string]bool, len(module.Imports))
		for _, imp := range module.Imports {
			importNamesInFile[imp.LocalName] = true
		}

		for name := range active {
			if importNamesInFile[name] && !module.DefinedNames[name] {
				if reexported[edge.Imported] == nil {
					reexported[edge.Imported] = make(map[string]bool)
				}
				reexported[edge.Imported][name] = true
			}
		}
	}

	return reexported
}

// findImplicitReexports finds re-exported names that are not listed in
// the source file's __all__. Importers whose import of the name was
// removed by the cascade are not counted in UsedBy.
func findImplicitReexports(in Input, reexported map[string]map[string]bool, removed map[string]map[string]bool) []types.ImplicitReexport {
	var result []types.ImplicitReexport

	files := make([]string, 0, len(reexported))
	for f := range reexported {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, file := range files {
		module, ok := in.Modules[file]
		if !ok {
			continue
		}
		exports := make(map[string]bool, len(module.Exports))
		for _, e := range module.Exports {
			exports[e] = true
		}

		names := make([]string, 0, len(reexported[file]))
		for n := range reexported[file] {
			names = append(names, n)
		}
		sort.Strings(names)

		for _, name := range names {
			if exports[name] {
				continue
			}
			usedBy := make(map[string]bool)
			for _, edge := range in.Graph.EdgesInto(file) {
				if edge.Names[name] && !removed[edge.Importer][name] {
					usedBy[edge.Importer] = true
				}
			}
			result = append(result, types.ImplicitReexport{
				SourceFile: file,
				ImportName: name,
				UsedBy:     usedBy,
			})
		}
	}

	return result
}

// aggregateExternalUsage aggregates which files use which external
// (outside-the-project) modules.
func aggregateExternalUsage(in Input) map[string]map[string]bool {
	usage := make(map[string]map[string]bool)
	for _, edge := range in.Graph.Edges {
		if !edge.IsExternal {
			continue
		}
		if usage[edge.ModuleName] == nil {
			usage[edge.ModuleName] = make(map[string]bool)
		}
		usage[edge.ModuleName][edge.Importer] = true
	}
	return usage
}

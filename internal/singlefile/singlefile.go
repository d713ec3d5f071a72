// Package singlefile implements per-file unused-import detection (spec
// C4): given one file's extracted bindings and scope/reference
// information, decide which import bindings are unused, honoring star-
// import and __all__-export safety.
package singlefile

import (
	"github.com/cmyui/remove-unused-imports-py/internal/refs"
	"github.com/cmyui/remove-unused-imports-py/internal/scopes"
	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

// Result is one file's single-file analysis: its unused bindings plus the
// module summary the cross-file stages (C5-C7) consume.
type Result struct {
	Unused []types.ImportBinding
	Module types.ModuleInfo
}

// Analyze decides which of fs.Imports are unused under cfg, and builds
// the ModuleInfo summary for later cross-file stages. Path is stamped
// onto the returned ModuleInfo as-is (callers pass the file's
// project-relative path).
func Analyze(fs *scopes.FileScopes, cfg types.Config, path string) Result {
	view := refs.View(fs)
	exported := make(map[string]bool, len(view.Exports))
	for _, name := range view.Exports {
		exported[name] = true
	}

	var unused []types.ImportBinding
	for idx, b := range fs.Imports {
		if isSafe(b, idx, fs, cfg, exported) {
			continue
		}
		unused = append(unused, b)
	}

	return Result{
		Unused: unused,
		Module: types.ModuleInfo{
			Path:            path,
			Imports:         fs.Imports,
			DefinedNames:    view.DefinedNames,
			Exports:         view.Exports,
			HasExports:      view.HasExports,
			ReferencedNames: view.ReferencedNames,
		},
	}
}

// isSafe reports whether a binding must be kept regardless of whether a
// direct reference resolved to it: star imports (we can't know what names
// they introduce) and, when configured, names re-exported via __all__.
func isSafe(b types.ImportBinding, idx int, fs *scopes.FileScopes, cfg types.Config, exported map[string]bool) bool {
	if b.IsStar {
		return cfg.StarIsUsed
	}
	if cfg.TreatAllAsExport && fs.HasExports && exported[b.LocalName] {
		return true
	}
	return refs.Used(fs, idx)
}

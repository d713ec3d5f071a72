// Package refs answers "is this name used" questions over a file's scope
// tree. The actual reference collection (including f-string interpolation
// scanning and string-annotation re-parsing) happens once, in the shared
// scopes walker invoked by internal/bindings; this package is the query
// surface C4 and the cross-file cascade read from.
package refs

import "github.com/cmyui/remove-unused-imports-py/internal/scopes"

// ModuleView is the subset of a file's scope information the cross-file
// cascade needs, independent of the per-binding unused/used verdicts C4
// computes.
type ModuleView struct {
	DefinedNames    map[string]bool
	ReferencedNames map[string]bool
	Exports         []string
	HasExports      bool
}

// View extracts the module-scope summary from a built scope tree.
func View(fs *scopes.FileScopes) ModuleView {
	return ModuleView{
		DefinedNames:    fs.ModuleDefinedNames(),
		ReferencedNames: fs.ModuleReferencedNames(),
		Exports:         fs.ExportNames(),
		HasExports:      fs.HasExports,
	}
}

// Used reports whether the import binding at index idx in fs.Imports was
// resolved to by some in-window reference anywhere in the file.
func Used(fs *scopes.FileScopes, idx int) bool {
	return fs.ImportUsed(idx)
}

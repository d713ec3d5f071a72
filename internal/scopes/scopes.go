// Package scopes builds the lexical scope tree a source file's imports and
// name references live in. It is shared infrastructure consumed by the
// binding extractor, the use scanner, and the single-file analyzer, the
// same way the teacher project factors Tree-sitter traversal helpers into
// a standalone "shared" package so multiple analyzers can reuse one
// correct implementation instead of three divergent ones.
package scopes

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/cmyui/remove-unused-imports-py/internal/parser"
	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

// bindingOcc is one name introduction inside a Scope: an import, or any
// other binding (assignment target, def/class name, parameter, loop
// variable, with/except alias, walrus target).
type bindingOcc struct {
	Name      string
	Pos       types.Position
	IsImport  bool
	ImportIdx int // index into FileScopes.Imports when IsImport; -1 otherwise
	Used      bool
}

// refOcc is one textual use of a name.
type refOcc struct {
	Name          string
	Pos           types.Position
	InTypeContext bool
}

// Scope is one lexical scope: module, function, class, or comprehension.
type Scope struct {
	Kind types.ScopeKind

	// Parent is the immediately lexically enclosing scope.
	Parent *Scope

	// ResolutionParent is the scope a reference climbs to when it isn't
	// resolved locally. It equals Parent, except a function scope whose
	// Parent is a class scope climbs past the class straight to the
	// class's own parent — class scopes don't propagate to nested
	// functions, per spec §3.
	ResolutionParent *Scope

	Bindings   []*bindingOcc
	References []refOcc
	Children   []*Scope
}

// FileScopes is the result of walking one file's syntax tree.
type FileScopes struct {
	Module *Scope

	// Imports are every import binding in the file, any scope, in source
	// order. Parallel to the bindingOcc each one is backed by (see
	// importOccs), so resolution results can be read back per binding.
	Imports []types.ImportBinding

	Exports    []string // literal __all__ contents, source order
	HasExports bool

	importOccs  []*bindingOcc // parallel to Imports
	stmtCounter int
}

func (fs *FileScopes) nextStatementGroup() int {
	fs.stmtCounter++
	return fs.stmtCounter
}

// newScope creates a child scope of parent with the given kind.
func newScope(kind types.ScopeKind, parent *Scope) *Scope {
	s := &Scope{Kind: kind, Parent: parent}
	if parent == nil {
		s.ResolutionParent = nil
	} else if kind == types.ScopeFunction && parent.Kind == types.ScopeClass {
		s.ResolutionParent = parent.Parent
	} else {
		s.ResolutionParent = parent
	}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Build walks the whole file, producing the scope tree plus the flattened
// import-binding and export lists. snippetParser is used to re-parse
// string-form type annotations (spec §9); pass nil (or set
// cfg.ScanTypeStrings to false) to skip that second pass.
func Build(tree *tree_sitter.Tree, content []byte, snippetParser *parser.Parser, cfg types.Config) *FileScopes {
	fs := &FileScopes{}
	module := newScope(types.ScopeModule, nil)
	fs.Module = module

	w := &walker{
		content:    content,
		fs:         fs,
		snippet:    snippetParser,
		scanTypes:  cfg.ScanTypeStrings,
	}
	w.walk(tree.RootNode(), module)
	w.resolveReferences()

	return fs
}

// nodeText extracts the text content of a Tree-sitter node.
func nodeText(node *tree_sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}

func nodePos(node *tree_sitter.Node) types.Position {
	start := node.StartPosition()
	end := node.EndPosition()
	return types.Position{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column),
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
		StartByte: node.StartByte(),
		EndByte:   node.EndByte(),
	}
}

// resolveReferences walks every scope's reference list and, for each
// reference, climbs the ResolutionParent chain looking for the binding
// that was active (introduced at or before the reference, with no later
// redefinition of the same name in that scope before the reference) at
// that position. The first such binding found is marked used; references
// with no active binding anywhere in the chain are external or builtin
// names and are simply left unresolved.
func (w *walker) resolveReferences() {
	var all []struct {
		scope *Scope
		ref   refOcc
	}
	var collect func(s *Scope)
	collect = func(s *Scope) {
		for _, r := range s.References {
			all = append(all, struct {
				scope *Scope
				ref   refOcc
			}{s, r})
		}
		for _, c := range s.Children {
			collect(c)
		}
	}
	collect(w.fs.Module)

	for _, item := range all {
		resolveOne(item.scope, item.ref)
	}
}

func resolveOne(scope *Scope, ref refOcc) {
	for s := scope; s != nil; s = s.ResolutionParent {
		if b := activeBinding(s, ref.Name, ref.Pos); b != nil {
			b.Used = true
			return
		}
	}
}

// activeBinding returns the binding occurrence for name in scope that is
// in effect at pos: the one with the greatest Pos among bindings whose
// Pos is at or before pos. Returns nil if no such binding exists (the
// reference precedes any introduction of name in this scope).
func activeBinding(s *Scope, name string, pos types.Position) *bindingOcc {
	var best *bindingOcc
	for _, b := range s.Bindings {
		if b.Name != name {
			continue
		}
		if b.Pos.StartByte > pos.StartByte {
			continue
		}
		if best == nil || b.Pos.StartByte > best.Pos.StartByte {
			best = b
		}
	}
	return best
}

// ModuleDefinedNames returns the set of names bound (by anything other
// than an import) at module scope.
func (fs *FileScopes) ModuleDefinedNames() map[string]bool {
	out := make(map[string]bool)
	for _, b := range fs.Module.Bindings {
		if !b.IsImport {
			out[b.Name] = true
		}
	}
	return out
}

// ModuleReferencedNames returns the set of names referenced directly at
// module scope (not inside a nested function/class/comprehension).
func (fs *FileScopes) ModuleReferencedNames() map[string]bool {
	out := make(map[string]bool)
	for _, r := range fs.Module.References {
		out[r.Name] = true
	}
	return out
}

// ImportUsed reports whether the import binding at Imports[idx] was
// resolved to by any in-window reference.
func (fs *FileScopes) ImportUsed(idx int) bool {
	if idx < 0 || idx >= len(fs.importOccs) {
		return false
	}
	return fs.importOccs[idx].Used
}

// ExportNames returns a defensive copy of Exports in source order.
func (fs *FileScopes) ExportNames() []string {
	out := make([]string, len(fs.Exports))
	copy(out, fs.Exports)
	return out
}

// Package types defines the value types shared across the unused-import
// analysis pipeline: import bindings, name references, resolved modules,
// import-graph edges, and the aggregate result the CLI and rewriter consume.
package types

// Position is a line/column span, sufficient to precisely delete a binding
// while preserving the rest of a source file's formatting.
type Position struct {
	StartLine int // 1-indexed
	StartCol  int // 0-indexed
	EndLine   int
	EndCol    int
	StartByte uint
	EndByte   uint
}

// ScopeKind enumerates the four lexical scope shapes the engine tracks.
type ScopeKind int

const (
	ScopeModule        ScopeKind = iota // top level of a file
	ScopeFunction                       // function or lambda body
	ScopeClass                          // class body (does not propagate to nested functions)
	ScopeComprehension                  // list/set/dict comprehension or generator expression
)

// String returns the human-readable name for a ScopeKind.
func (s ScopeKind) String() string {
	switch s {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeClass:
		return "class"
	case ScopeComprehension:
		return "comprehension"
	default:
		return "unknown"
	}
}

// ImportBinding is one locally-visible name introduced by an import
// statement. A single `from M import (N1, N2 as A)` produces two bindings
// sharing one StatementGroup.
type ImportBinding struct {
	LocalName      string    // name bound in this file's scope after aliasing
	SourceModule   string    // dotted module path, pre-resolution
	ImportedAttr   string    // attribute pulled from the module; empty if HasAttr is false
	HasAttr        bool      // true for "from M import N"; false for "import M"
	IsStar         bool      // true for "from M import *"
	Position       Position  // span sufficient to delete this binding
	Level          int       // count of leading dots for relative imports; 0 = absolute
	StatementGroup int       // identity shared by bindings on one physical statement
	Scope          ScopeKind // lexical scope this binding was introduced in
}

// NameReference is one textual use of a name.
type NameReference struct {
	Name          string   // leftmost identifier of an attribute chain
	Position      Position // location of the reference
	InTypeContext bool     // true in annotation position, or inside a string parsed as one
}

// ModuleInfo is the per-file summary that feeds the graph builder and the
// cross-file analyzer.
type ModuleInfo struct {
	Path            string          // canonical file path
	Imports         []ImportBinding // every import binding in the file, any scope (see ImportBinding.Scope); not filtered to module scope
	DefinedNames    map[string]bool // names bound by assignment/def/etc. at module scope
	Exports         []string        // literal __all__ contents, in source order
	HasExports      bool            // true iff __all__ is present (distinct from an empty list)
	ReferencedNames map[string]bool // aggregated module-scope name references
}

// ImportEdge is one edge in the project's directed import multigraph.
// Parallel edges (same Importer/Imported pair) are permitted and never
// merged, to preserve the statement-level granularity the rewriter needs.
type ImportEdge struct {
	Importer   string          // file path of the importing file
	Imported   string          // file path of the imported file; empty if IsExternal
	IsExternal bool            // true iff ModuleName resolves outside the project root
	ModuleName string          // dotted name as written in the source
	Names      map[string]bool // attribute names pulled in; {"*"} for star imports
}

// ImplicitReexport records a name that another file imports from
// SourceFile and uses, where SourceFile's exports (if any) omit the name.
type ImplicitReexport struct {
	SourceFile string
	ImportName string
	UsedBy     map[string]bool // files that import and use ImportName from SourceFile
}

// CrossFileResult is the single aggregate result consumed by the CLI and
// the rewriter.
type CrossFileResult struct {
	UnusedImports     map[string][]ImportBinding // file -> imports safe to remove
	ImplicitReexports []ImplicitReexport
	ExternalUsage     map[string]map[string]bool // external module name -> importing files
	CircularImports   [][]string                 // canonicalized cycles, each a file sequence
}

// Config enumerates the options the core accepts, per spec §6.
type Config struct {
	TreatAllAsExport bool // names in __all__ mark imports used (default true)
	StarIsUsed       bool // star imports are always used (default true)
	Cascade          bool // run the C7 fixed point (default true)
	ScanTypeStrings  bool // re-parse string-form annotations (default true)
}

// DefaultConfig returns the engine's default Config.
func DefaultConfig() Config {
	return Config{
		TreatAllAsExport: true,
		StarIsUsed:       true,
		Cascade:          true,
		ScanTypeStrings:  true,
	}
}

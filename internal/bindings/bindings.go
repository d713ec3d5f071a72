// Package bindings extracts import bindings from a parsed source file.
// It recognizes every import statement shape the language grammar
// produces and attributes each resulting local name to the lexical scope
// it was introduced in, by delegating the actual tree walk to the shared
// scopes builder.
package bindings

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/cmyui/remove-unused-imports-py/internal/parser"
	"github.com/cmyui/remove-unused-imports-py/internal/scopes"
	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

// Extract walks tree once and returns every import binding found, in
// source order, along with the full scope tree the use scanner and
// single-file analyzer need to resolve them. snippetParser may be nil if
// cfg.ScanTypeStrings is false.
func Extract(tree *tree_sitter.Tree, content []byte, snippetParser *parser.Parser, cfg types.Config) ([]types.ImportBinding, *scopes.FileScopes) {
	fs := scopes.Build(tree, content, snippetParser, cfg)
	return fs.Imports, fs
}

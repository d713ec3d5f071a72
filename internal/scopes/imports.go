package scopes

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

// walkImportStatement handles `import a.b.c`, `import a.b.c as x`, and the
// comma-separated `import a, b as c` form. Every entry on the line shares
// one statement group.
func (w *walker) walkImportStatement(n *tree_sitter.Node, scope *Scope) {
	group := w.fs.nextStatementGroup()
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		entry := n.NamedChild(i)
		switch entry.Kind() {
		case "dotted_name":
			dotted := w.text(entry)
			local := leadingSegment(dotted)
			w.addImport(scope, types.ImportBinding{
				LocalName:      local,
				SourceModule:   dotted,
				Position:       nodePos(entry),
				Level:          0,
				StatementGroup: group,
			})
		case "aliased_import":
			nameNode := entry.ChildByFieldName("name")
			aliasNode := entry.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			w.addImport(scope, types.ImportBinding{
				LocalName:      w.text(aliasNode),
				SourceModule:   w.text(nameNode),
				Position:       nodePos(entry),
				Level:          0,
				StatementGroup: group,
			})
		}
	}
}

// walkImportFromStatement handles `from M import a, b as c`, `from . import
// x`, `from ..pkg import y`, `from M import *`, and `from __future__ import
// f`.
func (w *walker) walkImportFromStatement(n *tree_sitter.Node, scope *Scope) {
	moduleNode := n.ChildByFieldName("module_name")
	if moduleNode == nil && n.NamedChildCount() > 0 {
		moduleNode = n.NamedChild(0)
	}
	moduleName, level := w.resolveFromModule(moduleNode)

	group := w.fs.nextStatementGroup()
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		entry := n.NamedChild(i)
		if moduleNode != nil && entry.Id() == moduleNode.Id() {
			continue
		}
		switch entry.Kind() {
		case "wildcard_import":
			w.addImport(scope, types.ImportBinding{
				LocalName:      "*",
				SourceModule:   moduleName,
				IsStar:         true,
				Position:       nodePos(entry),
				Level:          level,
				StatementGroup: group,
			})
		case "dotted_name", "identifier":
			name := w.text(entry)
			w.addImport(scope, types.ImportBinding{
				LocalName:      name,
				SourceModule:   moduleName,
				ImportedAttr:   name,
				HasAttr:        true,
				Position:       nodePos(entry),
				Level:          level,
				StatementGroup: group,
			})
		case "aliased_import":
			nameNode := entry.ChildByFieldName("name")
			aliasNode := entry.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			w.addImport(scope, types.ImportBinding{
				LocalName:      w.text(aliasNode),
				SourceModule:   moduleName,
				ImportedAttr:   w.text(nameNode),
				HasAttr:        true,
				Position:       nodePos(entry),
				Level:          level,
				StatementGroup: group,
			})
		}
	}
}

// resolveFromModule extracts the dotted module path and relative-import
// level (count of leading dots) from a `from`-clause's module part, which
// is either a plain dotted_name or a relative_import node.
func (w *walker) resolveFromModule(moduleNode *tree_sitter.Node) (string, int) {
	if moduleNode == nil {
		return "", 0
	}
	switch moduleNode.Kind() {
	case "dotted_name", "identifier":
		return w.text(moduleNode), 0
	case "relative_import":
		level := 0
		var dotted *tree_sitter.Node
		total := moduleNode.ChildCount()
		for i := uint(0); i < total; i++ {
			child := moduleNode.Child(i)
			if child.Kind() == "." {
				level++
			}
			if child.Kind() == "import_prefix" {
				// import_prefix wraps the run of dots in some grammar
				// versions; count dots inside it too.
				inner := child.ChildCount()
				for j := uint(0); j < inner; j++ {
					if child.Child(j).Kind() == "." {
						level++
					}
				}
			}
			if child.Kind() == "dotted_name" {
				dotted = child
			}
		}
		if level == 0 {
			level = 1 // at least a single '.' import_prefix is always present
		}
		if dotted != nil {
			return w.text(dotted), level
		}
		return "", level
	default:
		return w.text(moduleNode), 0
	}
}

func leadingSegment(dotted string) string {
	for i, c := range dotted {
		if c == '.' {
			return dotted[:i]
		}
	}
	return dotted
}

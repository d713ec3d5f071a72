package scopes

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/cmyui/remove-unused-imports-py/internal/parser"
	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

// walker carries the state needed while descending the syntax tree once.
type walker struct {
	content   []byte
	fs        *FileScopes
	snippet   *parser.Parser
	scanTypes bool
}

func (w *walker) text(n *tree_sitter.Node) string { return nodeText(n, w.content) }

func (w *walker) bind(scope *Scope, name string, pos types.Position) *bindingOcc {
	b := &bindingOcc{Name: name, Pos: pos, ImportIdx: -1}
	scope.Bindings = append(scope.Bindings, b)
	return b
}

func (w *walker) ref(scope *Scope, name string, pos types.Position, inType bool) {
	scope.References = append(scope.References, refOcc{Name: name, Pos: pos, InTypeContext: inType})
}

func (w *walker) addImport(scope *Scope, b types.ImportBinding) {
	b.Scope = scope.Kind
	idx := len(w.fs.Imports)
	w.fs.Imports = append(w.fs.Imports, b)
	occ := w.bind(scope, b.LocalName, b.Position)
	occ.IsImport = true
	occ.ImportIdx = idx
	w.fs.importOccs = append(w.fs.importOccs, occ)
}

// walk dispatches on node kind, recursing with the (possibly new) current
// scope. Anything not special-cased falls through to plain recursion with
// the same scope, which is correct for the large majority of statement and
// expression nodes that neither bind nor reference a name themselves
// (blocks, if/while/try, parenthesized/binary expressions, literals, …).
func (w *walker) walk(n *tree_sitter.Node, scope *Scope) {
	if n == nil {
		return
	}

	switch n.Kind() {
	case "import_statement":
		w.walkImportStatement(n, scope)
		return

	case "import_from_statement", "future_import_statement":
		w.walkImportFromStatement(n, scope)
		return

	case "assignment":
		w.walkAssignment(n, scope)
		return

	case "augmented_assignment":
		// Left side is read-then-written; treat as a reference only so it
		// never resets the shadow window for the name it mutates.
		if left := n.ChildByFieldName("left"); left != nil {
			w.walk(left, scope)
		}
		if right := n.ChildByFieldName("right"); right != nil {
			w.walk(right, scope)
		}
		return

	case "named_expression": // walrus: name := value
		if name := n.ChildByFieldName("name"); name != nil {
			w.bind(scope, w.text(name), nodePos(name))
		}
		if value := n.ChildByFieldName("value"); value != nil {
			w.walk(value, scope)
		}
		return

	case "identifier":
		w.ref(scope, w.text(n), nodePos(n), false)
		return

	case "attribute":
		// a.b.c: only the leftmost name is a reference; the trailing
		// attribute names are not identifiers in their own right.
		if obj := n.ChildByFieldName("object"); obj != nil {
			w.walk(obj, scope)
		}
		return

	case "call":
		if fn := n.ChildByFieldName("function"); fn != nil {
			w.walk(fn, scope)
		}
		if args := n.ChildByFieldName("arguments"); args != nil {
			w.walkChildren(args, scope)
		}
		return

	case "string":
		w.walkStringLiteral(n, scope, false)
		return

	case "for_statement":
		w.walkForStatement(n, scope)
		return

	case "with_statement":
		w.walkChildren(n, scope)
		return
	case "with_clause":
		w.walkChildren(n, scope)
		return
	case "with_item":
		if val := n.ChildByFieldName("value"); val != nil {
			w.walk(val, scope)
		}
		if alias := n.ChildByFieldName("alias"); alias != nil {
			w.bindPattern(alias, scope)
		}
		return

	case "except_clause":
		w.walkExceptClause(n, scope)
		return

	case "function_definition":
		w.walkFunctionDefinition(n, scope)
		return

	case "lambda":
		w.walkLambda(n, scope)
		return

	case "class_definition":
		w.walkClassDefinition(n, scope)
		return

	case "list_comprehension", "set_comprehension", "dictionary_comprehension", "generator_expression":
		w.walkComprehension(n, scope)
		return

	case "global_statement", "nonlocal_statement", "delete_statement":
		// Treat listed names as ordinary references; conservative (never
		// wrongly flags an import as unused because of del/global/nonlocal).
		w.walkChildren(n, scope)
		return
	}

	w.walkChildren(n, scope)
}

func (w *walker) walkChildren(n *tree_sitter.Node, scope *Scope) {
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		w.walk(n.NamedChild(i), scope)
	}
}

// bindPattern handles an assignment/loop/with/except target, which may be
// a bare identifier or a nested tuple/list pattern of identifiers, or
// (for assignment only) an attribute/subscript target that is not itself
// a new local binding.
func (w *walker) bindPattern(n *tree_sitter.Node, scope *Scope) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "identifier":
		w.bind(scope, w.text(n), nodePos(n))
	case "pattern_list", "tuple_pattern", "list_pattern", "tuple", "list":
		count := n.NamedChildCount()
		for i := uint(0); i < count; i++ {
			w.bindPattern(n.NamedChild(i), scope)
		}
	case "list_splat_pattern", "dictionary_splat_pattern":
		count := n.NamedChildCount()
		for i := uint(0); i < count; i++ {
			w.bindPattern(n.NamedChild(i), scope)
		}
	case "attribute", "subscript":
		// self.x = ... / d["k"] = ...: not a new local name, but the
		// object expression it names is a use.
		w.walk(n, scope)
	default:
		w.walk(n, scope)
	}
}

func (w *walker) walkAssignment(n *tree_sitter.Node, scope *Scope) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	typ := n.ChildByFieldName("type")

	if right != nil {
		w.walk(right, scope)
	}
	if typ != nil {
		w.walkTypeExpr(typ, scope)
	}

	if left != nil && left.Kind() == "identifier" && w.text(left) == "__all__" && scope.Kind == types.ScopeModule {
		w.walkAllAssignment(right, scope)
		// __all__ is still an ordinary module binding too.
	}
	if left != nil {
		w.bindPattern(left, scope)
	}
}

// walkAllAssignment records the literal string elements of an `__all__ =
// [...]` (or tuple/set) assignment as exports. They are not added as
// references; whether an exported import counts as used is decided by
// singlefile.isSafe under cfg.TreatAllAsExport. Per the open question
// recorded in DESIGN.md, this walk
// happens unconditionally — even inside an unreachable branch — since
// if/while/try don't open new scopes and we never attempt reachability
// analysis.
func (w *walker) walkAllAssignment(right *tree_sitter.Node, scope *Scope) {
	if right == nil {
		return
	}
	switch right.Kind() {
	case "list", "tuple", "set":
		w.fs.HasExports = true
		count := right.NamedChildCount()
		for i := uint(0); i < count; i++ {
			item := right.NamedChild(i)
			if item.Kind() != "string" {
				continue
			}
			if s, ok := stringLiteralValue(item, w.content); ok {
				w.fs.Exports = append(w.fs.Exports, s)
			}
		}
	case "binary_operator":
		// __all__ = a.__all__ + [...] style concatenation: best-effort,
		// walk both sides looking for literal lists.
		if left := right.ChildByFieldName("left"); left != nil {
			w.walkAllAssignment(left, scope)
		}
		if rhs := right.ChildByFieldName("right"); rhs != nil {
			w.walkAllAssignment(rhs, scope)
		}
	}
}

// stringLiteralValue extracts the text content of a simple (non-f) string
// literal, stripping quotes and prefix characters.
func stringLiteralValue(n *tree_sitter.Node, content []byte) (string, bool) {
	raw := nodeText(n, content)
	raw = strings.TrimLeft(raw, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(raw, q) && strings.HasSuffix(raw, q) && len(raw) >= 2*len(q) {
			return raw[len(q) : len(raw)-len(q)], true
		}
	}
	return "", false
}

func (w *walker) walkForStatement(n *tree_sitter.Node, scope *Scope) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	body := n.ChildByFieldName("body")
	alt := n.ChildByFieldName("alternative")

	if right != nil {
		w.walk(right, scope)
	}
	if left != nil {
		w.bindPattern(left, scope)
	}
	if body != nil {
		w.walk(body, scope)
	}
	if alt != nil {
		w.walk(alt, scope)
	}
}

func (w *walker) walkExceptClause(n *tree_sitter.Node, scope *Scope) {
	named := n.NamedChildCount()
	var aliasNode *tree_sitter.Node
	for i := uint(0); i < named; i++ {
		child := n.NamedChild(i)
		if i == 0 {
			w.walk(child, scope) // exception type expression
			continue
		}
		if child.Kind() == "identifier" {
			aliasNode = child
		} else {
			w.walk(child, scope)
		}
	}
	if aliasNode != nil {
		w.bind(scope, w.text(aliasNode), nodePos(aliasNode))
	}
}

func (w *walker) walkFunctionDefinition(n *tree_sitter.Node, scope *Scope) {
	nameNode := n.ChildByFieldName("name")
	params := n.ChildByFieldName("parameters")
	retType := n.ChildByFieldName("return_type")
	body := n.ChildByFieldName("body")

	if nameNode != nil {
		w.bind(scope, w.text(nameNode), nodePos(nameNode))
	}
	if retType != nil {
		w.walkTypeExpr(retType, scope)
	}

	fnScope := newScope(types.ScopeFunction, scope)
	w.walkParameters(params, scope, fnScope)

	if body != nil {
		w.walk(body, fnScope)
	}
}

func (w *walker) walkLambda(n *tree_sitter.Node, scope *Scope) {
	params := n.ChildByFieldName("parameters")
	body := n.ChildByFieldName("body")

	fnScope := newScope(types.ScopeFunction, scope)
	w.walkParameters(params, scope, fnScope)

	if body != nil {
		w.walk(body, fnScope)
	}
}

// walkParameters scans annotation and default-value expressions in the
// enclosing scope (they evaluate at def time) and binds each parameter
// name in the new function scope.
func (w *walker) walkParameters(params *tree_sitter.Node, enclosing, fnScope *Scope) {
	if params == nil {
		return
	}
	count := params.NamedChildCount()
	for i := uint(0); i < count; i++ {
		p := params.NamedChild(i)
		switch p.Kind() {
		case "identifier":
			w.bind(fnScope, w.text(p), nodePos(p))
		case "typed_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				w.bindPattern(name, fnScope)
			} else {
				// Grammar sometimes exposes the bare identifier as the
				// first named child without a "name" field.
				if p.NamedChildCount() > 0 {
					w.bindPattern(p.NamedChild(0), fnScope)
				}
			}
			if typ := p.ChildByFieldName("type"); typ != nil {
				w.walkTypeExpr(typ, enclosing)
			}
		case "default_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				w.bindPattern(name, fnScope)
			}
			if val := p.ChildByFieldName("value"); val != nil {
				w.walk(val, enclosing)
			}
		case "typed_default_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				w.bindPattern(name, fnScope)
			}
			if typ := p.ChildByFieldName("type"); typ != nil {
				w.walkTypeExpr(typ, enclosing)
			}
			if val := p.ChildByFieldName("value"); val != nil {
				w.walk(val, enclosing)
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			w.bindPattern(p, fnScope)
		case "keyword_separator", "positional_separator":
			// bare "*" / "/" markers, nothing to bind.
		default:
			w.bindPattern(p, fnScope)
		}
	}
}

func (w *walker) walkClassDefinition(n *tree_sitter.Node, scope *Scope) {
	nameNode := n.ChildByFieldName("name")
	supers := n.ChildByFieldName("superclasses")
	body := n.ChildByFieldName("body")

	if nameNode != nil {
		w.bind(scope, w.text(nameNode), nodePos(nameNode))
	}
	if supers != nil {
		w.walkChildren(supers, scope)
	}

	classScope := newScope(types.ScopeClass, scope)
	if body != nil {
		w.walk(body, classScope)
	}
}

// walkComprehension implements Python's rule that the outermost iterable
// is evaluated in the enclosing scope while everything else (the element
// expression, nested for-clauses, and filter conditions) lives in the
// comprehension's own scope.
func (w *walker) walkComprehension(n *tree_sitter.Node, scope *Scope) {
	compScope := newScope(types.ScopeComprehension, scope)

	count := n.NamedChildCount()
	firstForSeen := false
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		if child.Kind() == "for_in_clause" && !firstForSeen {
			firstForSeen = true
			left := child.ChildByFieldName("left")
			right := child.ChildByFieldName("right")
			if right != nil {
				w.walk(right, scope) // enclosing scope
			}
			if left != nil {
				w.bindPattern(left, compScope)
			}
			continue
		}
		if child.Kind() == "for_in_clause" {
			left := child.ChildByFieldName("left")
			right := child.ChildByFieldName("right")
			if right != nil {
				w.walk(right, compScope)
			}
			if left != nil {
				w.bindPattern(left, compScope)
			}
			continue
		}
		w.walk(child, compScope)
	}
}

// walkStringLiteral scans f-string interpolations inside a string node. If
// inType is true and the string is a plain (non-f) literal, it is a
// forward-reference type annotation and its contents are re-parsed as a
// type expression instead.
func (w *walker) walkStringLiteral(n *tree_sitter.Node, scope *Scope, inType bool) {
	hasInterpolation := false
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		if child.Kind() == "interpolation" {
			hasInterpolation = true
			if expr := child.ChildByFieldName("expression"); expr != nil {
				w.walk(expr, scope)
			}
		}
	}

	if inType && !hasInterpolation && w.scanTypes && w.snippet != nil {
		if s, ok := stringLiteralValue(n, w.content); ok && strings.TrimSpace(s) != "" {
			// Snippet nodes carry offsets into s, not into the file: read
			// their text from s, then anchor every reference they produced
			// at the string literal itself.
			saved, start := w.content, len(scope.References)
			w.content = []byte(s)
			w.walkForwardRefAnnotation(s, scope)
			w.content = saved
			at := nodePos(n)
			for i := start; i < len(scope.References); i++ {
				scope.References[i].Pos = at
			}
		}
	}
}

// walkForwardRefAnnotation re-parses a string-form annotation's contents
// through the shared snippet parser and scans the result as a type
// expression, attributing references to scope (the scope the real
// annotation syntactically appears in).
func (w *walker) walkForwardRefAnnotation(snippet string, scope *Scope) {
	tree, err := w.snippet.ParseSnippet(snippet)
	if err != nil || tree == nil {
		return
	}
	w.walkTypeExpr(tree.RootNode(), scope)
}

// walkTypeExpr scans an annotation expression, marking every reference it
// produces as being in type context, and following forward-reference
// strings when enabled.
func (w *walker) walkTypeExpr(n *tree_sitter.Node, scope *Scope) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "identifier":
		w.ref(scope, w.text(n), nodePos(n), true)
	case "attribute":
		if obj := n.ChildByFieldName("object"); obj != nil {
			w.walkTypeExpr(obj, scope)
		}
	case "string":
		w.walkStringLiteral(n, scope, true)
	case "subscript":
		if val := n.ChildByFieldName("value"); val != nil {
			w.walkTypeExpr(val, scope)
		}
		count := n.NamedChildCount()
		for i := uint(1); i < count; i++ {
			w.walkTypeExpr(n.NamedChild(i), scope)
		}
	case "module": // root of a re-parsed snippet
		count := n.NamedChildCount()
		for i := uint(0); i < count; i++ {
			w.walkTypeExpr(n.NamedChild(i), scope)
		}
	case "expression_statement":
		count := n.NamedChildCount()
		for i := uint(0); i < count; i++ {
			w.walkTypeExpr(n.NamedChild(i), scope)
		}
	default:
		count := n.NamedChildCount()
		for i := uint(0); i < count; i++ {
			w.walkTypeExpr(n.NamedChild(i), scope)
		}
	}
}

// Package parser provides Tree-sitter-based parsing of the analyzed
// source language (Python grammar).
//
// Tree-sitter parsers require CGO_ENABLED=1. Parser pools one parser
// instance and serializes access behind a mutex, since Tree-sitter parsers
// are not themselves thread-safe. Every Tree returned by ParseFile must be
// explicitly closed to avoid memory leaks.
package parser

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	"github.com/zeebo/xxh3"
)

// Parser holds a pooled Tree-sitter Python parser and a cache of re-parsed
// annotation-string snippets, keyed by content hash. String-form
// annotations (spec §9) are re-parsed by feeding their contents back
// through this same parser; the same annotation string (e.g.
// "Optional[int]") tends to recur across many functions in one file, so
// caching by hash avoids re-parsing identical snippets.
type Parser struct {
	mu           sync.Mutex
	pythonParser *tree_sitter.Parser

	snippetMu    sync.Mutex
	snippetCache map[uint64]*tree_sitter.Tree
}

// New creates a parser for the analyzed source language.
func New() (*Parser, error) {
	pyParser := tree_sitter.NewParser()
	pyLang := tree_sitter.NewLanguage(tree_sitter_python.Language())
	if err := pyParser.SetLanguage(pyLang); err != nil {
		pyParser.Close()
		return nil, fmt.Errorf("set python language: %w", err)
	}

	return &Parser{
		pythonParser: pyParser,
		snippetCache: make(map[uint64]*tree_sitter.Tree),
	}, nil
}

// Close releases all parser resources, including cached snippet trees.
// Must be called when done.
func (p *Parser) Close() {
	p.snippetMu.Lock()
	for _, t := range p.snippetCache {
		t.Close()
	}
	p.snippetCache = nil
	p.snippetMu.Unlock()

	if p.pythonParser != nil {
		p.pythonParser.Close()
	}
}

// ParseFile parses file content into a syntax tree. The returned Tree must
// be closed by the caller. This method is safe for concurrent use; parsing
// is serialized internally.
func (p *Parser) ParseFile(content []byte) (*tree_sitter.Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tree := p.pythonParser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter parse returned nil")
	}

	return tree, nil
}

// ParseSnippet re-parses a standalone expression snippet — the contents of
// a string-form type annotation or an f-string interpolation — and returns
// its syntax tree. The tree is cached by content hash and owned by the
// Parser; callers must NOT close it (it is closed by Parser.Close).
func (p *Parser) ParseSnippet(snippet string) (*tree_sitter.Tree, error) {
	key := xxh3.HashString(snippet)

	p.snippetMu.Lock()
	if tree, ok := p.snippetCache[key]; ok {
		p.snippetMu.Unlock()
		return tree, nil
	}
	p.snippetMu.Unlock()

	tree, err := p.ParseFile([]byte(snippet))
	if err != nil {
		return nil, fmt.Errorf("parse snippet: %w", err)
	}

	p.snippetMu.Lock()
	// Another goroutine may have raced us; prefer the already-cached tree
	// and close ours to avoid a leak.
	if existing, ok := p.snippetCache[key]; ok {
		p.snippetMu.Unlock()
		tree.Close()
		return existing, nil
	}
	p.snippetCache[key] = tree
	p.snippetMu.Unlock()

	return tree, nil
}

// Package graph builds the project's import multigraph (C6): forward and
// reverse adjacency between files, plus cycle detection. Grounded on the
// teacher's shared.ImportGraph, generalized from Go package-import edges
// to per-name Python import edges.
package graph

import (
	"sort"

	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

// Graph holds forward and reverse adjacency lists for intra-project
// imports, plus the set of imported names each edge carries (needed by
// the cascade stage to know which specific names an importer consumes
// from an importee).
type Graph struct {
	Forward map[string][]string // file -> files it imports
	Reverse map[string][]string // file -> files that import it
	Edges   []types.ImportEdge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		Forward: make(map[string][]string),
		Reverse: make(map[string][]string),
	}
}

// AddEdge records one resolved import: importer imports names (or a star)
// from imported, as written under moduleName. imported is the project-
// relative file path the import resolved to, or empty for an external
// (outside-the-project) import; moduleName is always the dotted name as
// it appears in the source, internal or external.
func (g *Graph) AddEdge(importer, imported, moduleName string, names map[string]bool, isExternal bool) {
	if !isExternal {
		g.Forward[importer] = append(g.Forward[importer], imported)
		g.Reverse[imported] = append(g.Reverse[imported], importer)
	}
	g.Edges = append(g.Edges, types.ImportEdge{
		Importer:   importer,
		Imported:   imported,
		ModuleName: moduleName,
		IsExternal: isExternal,
		Names:      names,
	})
}

// ImportersOf returns the (deduplicated) files that import file, sorted.
func (g *Graph) ImportersOf(file string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range g.Reverse[file] {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// ImportsOf returns the (deduplicated) files that file imports, sorted.
func (g *Graph) ImportsOf(file string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range g.Forward[file] {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// EdgesInto returns every edge whose Imported is file.
func (g *Graph) EdgesInto(file string) []types.ImportEdge {
	var out []types.ImportEdge
	for _, e := range g.Edges {
		if e.Imported == file {
			out = append(out, e)
		}
	}
	return out
}

// FindCycles returns every strongly connected component of size > 1 in
// the import graph, plus every single file that imports itself, as a list
// of file-path cycles. Each cycle is
// canonicalized (rotated so its lexicographically smallest element comes
// first) and the overall result is sorted, so the same project always
// reports the same cycle list regardless of map iteration order.
func (g *Graph) FindCycles() [][]string {
	t := &tarjan{
		graph:   g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}

	var nodes []string
	seen := make(map[string]bool)
	for n := range g.Forward {
		if !seen[n] {
			seen[n] = true
			nodes = append(nodes, n)
		}
	}
	for n := range g.Reverse {
		if !seen[n] {
			seen[n] = true
			nodes = append(nodes, n)
		}
	}
	sort.Strings(nodes)

	for _, n := range nodes {
		if _, ok := t.index[n]; !ok {
			t.strongConnect(n)
		}
	}

	var cycles [][]string
	for _, scc := range t.sccs {
		if len(scc) > 1 {
			cycles = append(cycles, canonicalize(scc))
		} else if len(scc) == 1 && hasSelfLoop(g, scc[0]) {
			cycles = append(cycles, scc)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycleKey(cycles[i]) < cycleKey(cycles[j])
	})

	return cycles
}

func hasSelfLoop(g *Graph, node string) bool {
	for _, f := range g.Forward[node] {
		if f == node {
			return true
		}
	}
	return false
}

func cycleKey(cycle []string) string {
	key := ""
	for _, c := range cycle {
		key += c + "\x00"
	}
	return key
}

// canonicalize rotates an SCC's member list so its lexicographically
// smallest element is first, and otherwise preserves discovery order
// within the rotation.
func canonicalize(scc []string) []string {
	if len(scc) == 0 {
		return scc
	}
	minIdx := 0
	for i, s := range scc {
		if s < scc[minIdx] {
			minIdx = i
		}
	}
	out := make([]string, len(scc))
	for i := range scc {
		out[i] = scc[(minIdx+i)%len(scc)]
	}
	return out
}

// tarjan implements Tarjan's strongly-connected-components algorithm over
// the graph's forward adjacency.
type tarjan struct {
	graph   *Graph
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	counter int
	sccs    [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	neighbors := append([]string(nil), t.graph.Forward[v]...)
	sort.Strings(neighbors)
	seen := make(map[string]bool)
	for _, w := range neighbors {
		if seen[w] {
			continue
		}
		seen[w] = true
		if _, ok := t.index[w]; !ok {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		// Members were popped in reverse; restore discovery order.
		for i, j := 0, len(scc)-1; i < j; i, j = i+1, j-1 {
			scc[i], scc[j] = scc[j], scc[i]
		}
		t.sccs = append(t.sccs, scc)
	}
}

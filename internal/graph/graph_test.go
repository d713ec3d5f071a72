package graph

import (
	"reflect"
	"testing"
)

func TestAddEdgeUpdatesAdjacency(t *testing.T) {
	g := New()
	g.AddEdge("a.py", "b.py", "b", map[string]bool{"x": true}, false)

	if got := g.ImportsOf("a.py"); !reflect.DeepEqual(got, []string{"b.py"}) {
		t.Errorf("ImportsOf(a.py) = %v, want [b.py]", got)
	}
	if got := g.ImportersOf("b.py"); !reflect.DeepEqual(got, []string{"a.py"}) {
		t.Errorf("ImportersOf(b.py) = %v, want [a.py]", got)
	}
}

func TestParallelEdgesNotMerged(t *testing.T) {
	g := New()
	g.AddEdge("a.py", "b.py", "b", map[string]bool{"x": true}, false)
	g.AddEdge("a.py", "b.py", "b", map[string]bool{"y": true}, false)

	if len(g.Edges) != 2 {
		t.Errorf("len(Edges) = %d, want 2 (parallel edges must not merge)", len(g.Edges))
	}
}

func TestEdgesInto(t *testing.T) {
	g := New()
	g.AddEdge("a.py", "c.py", "c", map[string]bool{"x": true}, false)
	g.AddEdge("b.py", "c.py", "c", map[string]bool{"y": true}, false)
	g.AddEdge("a.py", "d.py", "d", map[string]bool{"z": true}, false)

	edges := g.EdgesInto("c.py")
	if len(edges) != 2 {
		t.Fatalf("len(EdgesInto(c.py)) = %d, want 2", len(edges))
	}
}

func TestFindCyclesNoCycle(t *testing.T) {
	g := New()
	g.AddEdge("a.py", "b.py", "b", map[string]bool{"x": true}, false)
	g.AddEdge("b.py", "c.py", "c", map[string]bool{"y": true}, false)

	if cycles := g.FindCycles(); len(cycles) != 0 {
		t.Errorf("FindCycles() = %v, want none", cycles)
	}
}

func TestFindCyclesTwoFileCycle(t *testing.T) {
	g := New()
	g.AddEdge("a.py", "b.py", "b", map[string]bool{"x": true}, false)
	g.AddEdge("b.py", "a.py", "a", map[string]bool{"y": true}, false)

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("FindCycles() = %v, want 1 cycle", cycles)
	}
	if !reflect.DeepEqual(cycles[0], []string{"a.py", "b.py"}) {
		t.Errorf("cycle = %v, want [a.py b.py] (canonicalized to start at the smallest element)", cycles[0])
	}
}

func TestFindCyclesSelfLoop(t *testing.T) {
	g := New()
	g.AddEdge("a.py", "a.py", "a", map[string]bool{"x": true}, false)

	cycles := g.FindCycles()
	if len(cycles) != 1 || !reflect.DeepEqual(cycles[0], []string{"a.py"}) {
		t.Errorf("FindCycles() = %v, want a single self-loop cycle [a.py]", cycles)
	}
}

func TestFindCyclesDeterministicAcrossInsertOrder(t *testing.T) {
	g1 := New()
	g1.AddEdge("a.py", "b.py", "b", map[string]bool{"x": true}, false)
	g1.AddEdge("b.py", "c.py", "c", map[string]bool{"y": true}, false)
	g1.AddEdge("c.py", "a.py", "a", map[string]bool{"z": true}, false)

	g2 := New()
	g2.AddEdge("c.py", "a.py", "a", map[string]bool{"z": true}, false)
	g2.AddEdge("a.py", "b.py", "b", map[string]bool{"x": true}, false)
	g2.AddEdge("b.py", "c.py", "c", map[string]bool{"y": true}, false)

	c1 := g1.FindCycles()
	c2 := g2.FindCycles()
	if !reflect.DeepEqual(c1, c2) {
		t.Errorf("FindCycles() not deterministic across insertion order: %v vs %v", c1, c2)
	}
}

func TestExternalEdgeExcludedFromCycleDetectionButPresentInEdges(t *testing.T) {
	g := New()
	g.AddEdge("a.py", "", "numpy", map[string]bool{"array": true}, true)

	if len(g.Edges) != 1 || !g.Edges[0].IsExternal {
		t.Fatalf("expected one external edge recorded")
	}
	if g.Edges[0].Imported != "" {
		t.Errorf("Imported = %q, want empty for an external edge", g.Edges[0].Imported)
	}
	if g.Edges[0].ModuleName != "numpy" {
		t.Errorf("ModuleName = %q, want numpy", g.Edges[0].ModuleName)
	}
	if cycles := g.FindCycles(); len(cycles) != 0 {
		t.Errorf("FindCycles() = %v, want none for a single external edge", cycles)
	}
}

func TestAddEdgeSetsModuleName(t *testing.T) {
	g := New()
	g.AddEdge("a.py", "pkg/b.py", "pkg.b", map[string]bool{"X": true}, false)

	if g.Edges[0].ModuleName != "pkg.b" {
		t.Errorf("ModuleName = %q, want pkg.b", g.Edges[0].ModuleName)
	}
}

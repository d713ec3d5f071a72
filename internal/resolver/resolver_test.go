package resolver

import (
	"testing"

	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

func TestFilePathToModule(t *testing.T) {
	cases := map[string]string{
		"a/b/c.py":        "a.b.c",
		"a/b/__init__.py": "a.b",
		"mod.py":          "mod",
		"__init__.py":     "",
	}
	for in, want := range cases {
		if got := FilePathToModule(in); got != want {
			t.Errorf("FilePathToModule(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveAbsoluteImport(t *testing.T) {
	r, err := New([]string{"pkg/sub/mod.py", "other.py"}, 0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	got, ok := r.Resolve("other.py", types.ImportBinding{SourceModule: "pkg.sub.mod", Level: 0})
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if got != "pkg/sub/mod.py" {
		t.Errorf("Resolve() = %q, want pkg/sub/mod.py", got)
	}
}

func TestResolveUnresolvedExternalImport(t *testing.T) {
	r, err := New([]string{"pkg/mod.py"}, 0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_, ok := r.Resolve("pkg/mod.py", types.ImportBinding{SourceModule: "numpy", Level: 0})
	if ok {
		t.Error("expected numpy to be unresolved (not a project file)")
	}
}

func TestResolveRelativeImportWithModule(t *testing.T) {
	r, err := New([]string{"pkg/sub/a.py", "pkg/sub/b.py"}, 0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// from .b import thing, written inside pkg/sub/a.py -> pkg.sub.b
	got, ok := r.Resolve("pkg/sub/a.py", types.ImportBinding{SourceModule: "b", Level: 1})
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if got != "pkg/sub/b.py" {
		t.Errorf("Resolve() = %q, want pkg/sub/b.py", got)
	}
}

func TestResolveRelativeImportParentPackage(t *testing.T) {
	r, err := New([]string{"pkg/sub/a.py", "pkg/top.py"}, 0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// from ..top import thing, written inside pkg/sub/a.py -> pkg.top
	got, ok := r.Resolve("pkg/sub/a.py", types.ImportBinding{SourceModule: "top", Level: 2})
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if got != "pkg/top.py" {
		t.Errorf("Resolve() = %q, want pkg/top.py", got)
	}
}

func TestAmbiguousModulePrefersModuleFileOverInit(t *testing.T) {
	r, err := New([]string{"pkg/foo.py", "pkg/foo/__init__.py"}, 0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	got, ok := r.Resolve("other.py", types.ImportBinding{SourceModule: "pkg.foo", Level: 0})
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if got != "pkg/foo.py" {
		t.Errorf("Resolve() = %q, want pkg/foo.py (module file wins over package __init__)", got)
	}

	ambiguities := r.Ambiguities()
	if len(ambiguities) != 1 {
		t.Fatalf("Ambiguities() = %v, want 1 entry", ambiguities)
	}
	if ambiguities[0].ModuleName != "pkg.foo" {
		t.Errorf("ModuleName = %q, want pkg.foo", ambiguities[0].ModuleName)
	}
	wantCandidates := []string{"pkg/foo.py", "pkg/foo/__init__.py"}
	if len(ambiguities[0].Candidates) != len(wantCandidates) {
		t.Fatalf("Candidates = %v, want %v", ambiguities[0].Candidates, wantCandidates)
	}
	for i, c := range wantCandidates {
		if ambiguities[0].Candidates[i] != c {
			t.Errorf("Candidates[%d] = %q, want %q", i, ambiguities[0].Candidates[i], c)
		}
	}
}

func TestNoAmbiguityForUniqueModules(t *testing.T) {
	r, err := New([]string{"pkg/foo.py", "pkg/bar.py"}, 0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if len(r.Ambiguities()) != 0 {
		t.Errorf("Ambiguities() = %v, want none", r.Ambiguities())
	}
}

func TestResolveCachesRepeatedLookups(t *testing.T) {
	r, err := New([]string{"pkg/mod.py"}, 0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	b := types.ImportBinding{SourceModule: "pkg.mod", Level: 0}

	first, ok1 := r.Resolve("x.py", b)
	second, ok2 := r.Resolve("x.py", b)
	if !ok1 || !ok2 || first != second {
		t.Errorf("expected repeated resolution to return the same result, got (%q,%v) then (%q,%v)", first, ok1, second, ok2)
	}
}

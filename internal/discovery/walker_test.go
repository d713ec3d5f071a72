package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDiscoverFindsPythonFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "mod.py"), "import os\n")
	writeFile(t, filepath.Join(root, "pkg", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "README.md"), "not python")
	writeFile(t, filepath.Join(root, "__pycache__", "mod.cpython-312.pyc"), "")

	w := NewWalker(nil, nil)
	result, err := w.Discover(root)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	sort.Strings(result.Files)
	want := []string{"pkg/__init__.py", "pkg/mod.py"}
	if len(result.Files) != len(want) {
		t.Fatalf("Files = %v, want %v", result.Files, want)
	}
	for i, f := range want {
		if result.Files[i] != f {
			t.Errorf("Files[%d] = %q, want %q", i, result.Files[i], f)
		}
	}
}

func TestDiscoverHonorsExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "mod.py"), "")
	writeFile(t, filepath.Join(root, "tests", "test_mod.py"), "")

	w := NewWalker([]string{"**/*.py"}, []string{"tests/**"})
	result, err := w.Discover(root)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(result.Files) != 1 || result.Files[0] != "src/mod.py" {
		t.Errorf("Files = %v, want [src/mod.py]", result.Files)
	}
}

func TestDiscoverHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "ignored/\n")
	writeFile(t, filepath.Join(root, "ignored", "mod.py"), "")
	writeFile(t, filepath.Join(root, "kept.py"), "")

	w := NewWalker(nil, nil)
	result, err := w.Discover(root)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(result.Files) != 1 || result.Files[0] != "kept.py" {
		t.Errorf("Files = %v, want [kept.py]", result.Files)
	}
}

func TestDiscoverRejectsNonDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f.py")
	writeFile(t, file, "")

	w := NewWalker(nil, nil)
	if _, err := w.Discover(file); err == nil {
		t.Error("expected error for non-directory root")
	}
}

package singlefile

import (
	"testing"

	"github.com/cmyui/remove-unused-imports-py/internal/bindings"
	"github.com/cmyui/remove-unused-imports-py/internal/parser"
	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

func analyzeSrc(t *testing.T, src string, cfg types.Config) Result {
	t.Helper()
	p, err := parser.New()
	if err != nil {
		t.Fatalf("parser.New() error: %v", err)
	}
	t.Cleanup(p.Close)

	tree, err := p.ParseFile([]byte(src))
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	t.Cleanup(tree.Close)

	var snippet *parser.Parser
	if cfg.ScanTypeStrings {
		snippet = p
	}
	_, fs := bindings.Extract(tree, []byte(src), snippet, cfg)
	return Analyze(fs, cfg, "mod.py")
}

func TestAnalyzeReportsUnusedImport(t *testing.T) {
	result := analyzeSrc(t, "import os\nimport sys\nprint(sys.argv)\n", types.DefaultConfig())
	if len(result.Unused) != 1 || result.Unused[0].LocalName != "os" {
		t.Errorf("Unused = %+v, want just os", result.Unused)
	}
}

func TestAnalyzeStarImportSafeByDefault(t *testing.T) {
	result := analyzeSrc(t, "from os import *\n", types.DefaultConfig())
	if len(result.Unused) != 0 {
		t.Errorf("Unused = %+v, want none (StarIsUsed defaults true)", result.Unused)
	}
}

func TestAnalyzeStarImportUnsafeWhenConfigured(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.StarIsUsed = false
	result := analyzeSrc(t, "from os import *\n", cfg)
	if len(result.Unused) != 1 {
		t.Errorf("Unused = %+v, want the star import reported", result.Unused)
	}
}

func TestAnalyzeExportedNameSafeWhenTreatAllAsExport(t *testing.T) {
	result := analyzeSrc(t, "import os\n__all__ = ['os']\n", types.DefaultConfig())
	if len(result.Unused) != 0 {
		t.Errorf("Unused = %+v, want none (os is exported)", result.Unused)
	}
}

func TestAnalyzeExportedNameUnsafeWhenTreatAllAsExportDisabled(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.TreatAllAsExport = false
	result := analyzeSrc(t, "import os\n__all__ = ['os']\n", cfg)
	if len(result.Unused) != 1 {
		t.Errorf("Unused = %+v, want os reported despite __all__", result.Unused)
	}
}

func TestAnalyzeModuleInfoPopulated(t *testing.T) {
	result := analyzeSrc(t, "import os\nprint(os.getcwd())\n", types.DefaultConfig())
	if result.Module.Path != "mod.py" {
		t.Errorf("Module.Path = %q, want mod.py", result.Module.Path)
	}
	if len(result.Module.Imports) != 1 {
		t.Errorf("Module.Imports = %+v, want 1 entry", result.Module.Imports)
	}
	if !result.Module.ReferencedNames["os"] {
		t.Errorf("Module.ReferencedNames = %v, want os", result.Module.ReferencedNames)
	}
}

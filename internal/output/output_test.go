package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

func TestRenderUnusedTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderUnusedText(&buf, nil)
	if !strings.Contains(buf.String(), "no unused imports") {
		t.Errorf("output = %q, want mention of no unused imports", buf.String())
	}
}

func TestRenderUnusedTextReportsCount(t *testing.T) {
	var buf bytes.Buffer
	unused := map[string][]types.ImportBinding{
		"pkg/mod.py": {
			{LocalName: "os", SourceModule: "os", Position: types.Position{StartLine: 1, StartCol: 0}},
		},
	}
	RenderUnusedText(&buf, unused)
	out := buf.String()
	if !strings.Contains(out, "pkg/mod.py") || !strings.Contains(out, "os") {
		t.Errorf("output = %q, want file and import name", out)
	}
	if !strings.Contains(out, "1 unused import") {
		t.Errorf("output = %q, want total count", out)
	}
}

func TestRenderUnusedJSON(t *testing.T) {
	var buf bytes.Buffer
	unused := map[string][]types.ImportBinding{
		"a.py": {{LocalName: "sys", SourceModule: "sys"}},
	}
	if err := RenderUnusedJSON(&buf, unused); err != nil {
		t.Fatalf("RenderUnusedJSON() error: %v", err)
	}

	var report jsonUnusedReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.TotalUnused != 1 {
		t.Errorf("TotalUnused = %d, want 1", report.TotalUnused)
	}
	if len(report.UnusedImports["a.py"]) != 1 {
		t.Errorf("UnusedImports[a.py] = %v, want 1 entry", report.UnusedImports["a.py"])
	}
}

func TestRenderCrossFileJSONIncludesReexportsAndCycles(t *testing.T) {
	var buf bytes.Buffer
	result := types.CrossFileResult{
		UnusedImports: map[string][]types.ImportBinding{
			"a.py": {{LocalName: "x", SourceModule: "b"}},
		},
		ImplicitReexports: []types.ImplicitReexport{
			{SourceFile: "b.py", ImportName: "y", UsedBy: map[string]bool{"a.py": true}},
		},
		CircularImports: [][]string{{"a.py", "b.py"}},
	}

	if err := RenderCrossFileJSON(&buf, result); err != nil {
		t.Fatalf("RenderCrossFileJSON() error: %v", err)
	}

	var report jsonCrossFileReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(report.ImplicitReexports) != 1 {
		t.Errorf("ImplicitReexports = %v, want 1 entry", report.ImplicitReexports)
	}
	if len(report.CircularImports) != 1 {
		t.Errorf("CircularImports = %v, want 1 entry", report.CircularImports)
	}
}

func TestRenderCrossFileJSONIncludesExternalUsage(t *testing.T) {
	var buf bytes.Buffer
	result := types.CrossFileResult{
		UnusedImports: map[string][]types.ImportBinding{},
		ExternalUsage: map[string]map[string]bool{
			"numpy": {"a.py": true, "b.py": true},
		},
	}

	if err := RenderCrossFileJSON(&buf, result); err != nil {
		t.Fatalf("RenderCrossFileJSON() error: %v", err)
	}

	var report jsonCrossFileReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(report.ExternalUsage["numpy"]) != 2 {
		t.Errorf("ExternalUsage[numpy] = %v, want 2 importers", report.ExternalUsage["numpy"])
	}
}

func TestRenderCrossFileTextIncludesExternalUsage(t *testing.T) {
	var buf bytes.Buffer
	result := types.CrossFileResult{
		UnusedImports: map[string][]types.ImportBinding{},
		ExternalUsage: map[string]map[string]bool{
			"numpy": {"a.py": true, "b.py": true},
		},
	}
	RenderCrossFileText(&buf, result)
	out := buf.String()
	if !strings.Contains(out, "numpy") || !strings.Contains(out, "2 file(s)") {
		t.Errorf("output = %q, want external usage section mentioning numpy and 2 file(s)", out)
	}
}

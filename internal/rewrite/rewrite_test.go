package rewrite

import (
	"testing"

	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

func pos(startByte, endByte uint) types.Position {
	return types.Position{StartByte: startByte, EndByte: endByte}
}

func TestApplyRemovesWholeLineWhenGroupFullyUnused(t *testing.T) {
	content := []byte("import os\nprint('hi')\n")
	// "os" spans bytes 7..9
	imp := types.ImportBinding{LocalName: "os", Position: pos(7, 9), StatementGroup: 1}

	out := Apply(content, []types.ImportBinding{imp}, []types.ImportBinding{imp})
	want := "print('hi')\n"
	if string(out) != want {
		t.Errorf("Apply() = %q, want %q", out, want)
	}
}

func TestApplyKeepsUsedSiblingInSameStatement(t *testing.T) {
	content := []byte("import os, sys\n")
	// "os" spans 7..9, "sys" spans 11..14
	os := types.ImportBinding{LocalName: "os", Position: pos(7, 9), StatementGroup: 1}
	sys := types.ImportBinding{LocalName: "sys", Position: pos(11, 14), StatementGroup: 1}

	out := Apply(content, []types.ImportBinding{os, sys}, []types.ImportBinding{os})
	want := "import sys\n"
	if string(out) != want {
		t.Errorf("Apply() = %q, want %q", out, want)
	}
}

func TestApplyRemovesTrailingEntryUsingLeadingComma(t *testing.T) {
	content := []byte("from x import a, b\n")
	// "a" spans 14..15, "b" spans 17..18
	a := types.ImportBinding{LocalName: "a", Position: pos(14, 15), StatementGroup: 1}
	b := types.ImportBinding{LocalName: "b", Position: pos(17, 18), StatementGroup: 1}

	out := Apply(content, []types.ImportBinding{a, b}, []types.ImportBinding{b})
	want := "from x import a\n"
	if string(out) != want {
		t.Errorf("Apply() = %q, want %q", out, want)
	}
}

func TestApplyNoUnusedReturnsCopy(t *testing.T) {
	content := []byte("import os\n")
	imp := types.ImportBinding{LocalName: "os", Position: pos(7, 9), StatementGroup: 1}

	out := Apply(content, []types.ImportBinding{imp}, nil)
	if string(out) != string(content) {
		t.Errorf("Apply() = %q, want unchanged %q", out, content)
	}
	// must be a distinct copy, not an alias
	out[0] = 'X'
	if content[0] == 'X' {
		t.Errorf("Apply() aliased the input content")
	}
}

func TestApplyMultipleStatementsIndependent(t *testing.T) {
	content := []byte("import os\nimport sys\nprint(sys.argv)\n")
	osImp := types.ImportBinding{LocalName: "os", Position: pos(7, 9), StatementGroup: 1}
	sysImp := types.ImportBinding{LocalName: "sys", Position: pos(17, 20), StatementGroup: 2}

	out := Apply(content, []types.ImportBinding{osImp, sysImp}, []types.ImportBinding{osImp})
	want := "import sys\nprint(sys.argv)\n"
	if string(out) != want {
		t.Errorf("Apply() = %q, want %q", out, want)
	}
}

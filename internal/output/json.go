package output

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

// jsonImport is one unused import binding in JSON output.
type jsonImport struct {
	Line         int    `json:"line"`
	Column       int    `json:"column"`
	LocalName    string `json:"local_name"`
	SourceModule string `json:"source_module,omitempty"`
	IsStar       bool   `json:"is_star,omitempty"`
}

// jsonReexport is one implicit re-export finding in JSON output.
type jsonReexport struct {
	SourceFile string   `json:"source_file"`
	ImportName string   `json:"import_name"`
	UsedBy     []string `json:"used_by"`
}

// jsonUnusedReport is the single-file (non-cascade) JSON report shape.
type jsonUnusedReport struct {
	Version       string                  `json:"version"`
	UnusedImports map[string][]jsonImport `json:"unused_imports"`
	TotalUnused   int                     `json:"total_unused"`
}

// jsonCrossFileReport is the full cascade JSON report shape.
type jsonCrossFileReport struct {
	Version           string                  `json:"version"`
	UnusedImports     map[string][]jsonImport `json:"unused_imports"`
	TotalUnused       int                     `json:"total_unused"`
	ImplicitReexports []jsonReexport          `json:"implicit_reexports,omitempty"`
	ExternalUsage     map[string][]string     `json:"external_usage,omitempty"`
	CircularImports   [][]string              `json:"circular_imports,omitempty"`
}

// RenderUnusedJSON writes single-file unused-import results as
// pretty-printed JSON.
func RenderUnusedJSON(w io.Writer, unused map[string][]types.ImportBinding) error {
	report := jsonUnusedReport{
		Version:       "1",
		UnusedImports: make(map[string][]jsonImport, len(unused)),
	}
	for file, imports := range unused {
		report.UnusedImports[file] = toJSONImports(imports)
		report.TotalUnused += len(imports)
	}
	return encode(w, report)
}

// RenderCrossFileJSON writes full cross-file cascade results as
// pretty-printed JSON.
func RenderCrossFileJSON(w io.Writer, result types.CrossFileResult) error {
	report := jsonCrossFileReport{
		Version:       "1",
		UnusedImports: make(map[string][]jsonImport, len(result.UnusedImports)),
	}
	for file, imports := range result.UnusedImports {
		report.UnusedImports[file] = toJSONImports(imports)
		report.TotalUnused += len(imports)
	}
	for _, r := range result.ImplicitReexports {
		report.ImplicitReexports = append(report.ImplicitReexports, jsonReexport{
			SourceFile: r.SourceFile,
			ImportName: r.ImportName,
			UsedBy:     sortedStringSet(r.UsedBy),
		})
	}
	sort.Slice(report.ImplicitReexports, func(i, j int) bool {
		if report.ImplicitReexports[i].SourceFile != report.ImplicitReexports[j].SourceFile {
			return report.ImplicitReexports[i].SourceFile < report.ImplicitReexports[j].SourceFile
		}
		return report.ImplicitReexports[i].ImportName < report.ImplicitReexports[j].ImportName
	})
	if len(result.ExternalUsage) > 0 {
		report.ExternalUsage = make(map[string][]string, len(result.ExternalUsage))
		for module, users := range result.ExternalUsage {
			report.ExternalUsage[module] = sortedStringSet(users)
		}
	}
	report.CircularImports = result.CircularImports

	return encode(w, report)
}

func toJSONImports(imports []types.ImportBinding) []jsonImport {
	out := make([]jsonImport, 0, len(imports))
	for _, imp := range imports {
		out = append(out, jsonImport{
			Line:         imp.Position.StartLine,
			Column:       imp.Position.StartCol,
			LocalName:    imp.LocalName,
			SourceModule: imp.SourceModule,
			IsStar:       imp.IsStar,
		})
	}
	return out
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

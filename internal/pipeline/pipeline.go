// Package pipeline orchestrates the full analysis workflow: discover ->
// parse -> extract bindings & scan uses (parallel, per file) -> single-file
// analysis -> resolve modules -> build import graph -> cross-file cascade
// -> render output.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/cmyui/remove-unused-imports-py/internal/bindings"
	"github.com/cmyui/remove-unused-imports-py/internal/cascade"
	"github.com/cmyui/remove-unused-imports-py/internal/config"
	"github.com/cmyui/remove-unused-imports-py/internal/discovery"
	"github.com/cmyui/remove-unused-imports-py/internal/graph"
	"github.com/cmyui/remove-unused-imports-py/internal/output"
	"github.com/cmyui/remove-unused-imports-py/internal/parser"
	"github.com/cmyui/remove-unused-imports-py/internal/resolver"
	"github.com/cmyui/remove-unused-imports-py/internal/rewrite"
	"github.com/cmyui/remove-unused-imports-py/internal/singlefile"
	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

// ProgressFunc is a callback for pipeline stage progress updates.
type ProgressFunc func(stage string, detail string)

// Pipeline runs the discover -> parse -> analyze -> cascade -> render
// workflow over one project directory.
type Pipeline struct {
	writer       io.Writer
	cfg          types.Config
	projectCfg   *config.ProjectConfig
	jsonOutput   bool
	failOnUnused bool
	fix          bool
	onProgress   ProgressFunc
}

// New creates a Pipeline. If onProgress is nil, a no-op is used. When fix
// is true, every import confirmed unused is removed from its source file
// in place (after rendering the report), using internal/rewrite.
func New(w io.Writer, cfg types.Config, projectCfg *config.ProjectConfig, jsonOutput, failOnUnused, fix bool, onProgress ProgressFunc) *Pipeline {
	if onProgress == nil {
		onProgress = func(string, string) {}
	}
	return &Pipeline{
		writer:       w,
		cfg:          cfg,
		projectCfg:   projectCfg,
		jsonOutput:   jsonOutput,
		failOnUnused: failOnUnused,
		fix:          fix,
		onProgress:   onProgress,
	}
}

type fileAnalysis struct {
	relPath string
	unused  []types.ImportBinding
	module  types.ModuleInfo
	err     error
}

// Run executes the full pipeline on the given directory.
func (p *Pipeline) Run(dir string) error {
	p.onProgress("discover", "Scanning files...")
	walker := discovery.NewWalker(p.projectCfg.IncludeGlobs(), p.projectCfg.ExcludeGlobs())
	discovered, err := walker.Discover(dir)
	if err != nil {
		return err
	}
	if len(discovered.Files) == 0 {
		return fmt.Errorf("no Python files found in %s", dir)
	}

	tsParser, err := parser.New()
	if err != nil {
		return fmt.Errorf("create parser: %w", err)
	}
	defer tsParser.Close()

	p.onProgress("analyze", "Parsing and analyzing files...")

	sort.Strings(discovered.Files)

	bar := newFileBar(len(discovered.Files))

	results := make([]fileAnalysis, len(discovered.Files))
	g := new(errgroup.Group)
	var mu sync.Mutex
	var parseErrors []error

	for i, relPath := range discovered.Files {
		i, relPath := i, relPath
		g.Go(func() error {
			analysis := p.analyzeFile(dir, relPath, tsParser)
			mu.Lock()
			if analysis.err != nil {
				var ioErr *types.IoFailure
				if errors.As(analysis.err, &ioErr) {
					parseErrors = append(parseErrors, ioErr)
				} else {
					parseErrors = append(parseErrors, &types.ParseFailure{Path: relPath, Message: analysis.err.Error()})
				}
			}
			_ = bar.Add(1)
			mu.Unlock()
			results[i] = analysis
			return nil
		})
	}
	_ = g.Wait()
	_ = bar.Finish()

	for _, perr := range parseErrors {
		fmt.Fprintf(p.writer, "warning: %v\n", perr)
	}

	singleFileUnused := make(map[string][]types.ImportBinding)
	modules := make(map[string]types.ModuleInfo)
	for _, r := range results {
		if r.err != nil {
			continue
		}
		if len(r.unused) > 0 {
			singleFileUnused[r.relPath] = r.unused
		}
		modules[r.relPath] = r.module
	}

	if !p.cfg.Cascade {
		return p.renderSingleFile(dir, singleFileUnused, modules)
	}

	p.onProgress("resolve", "Resolving module graph...")
	res, err := resolver.New(discovered.Files, 0)
	if err != nil {
		return fmt.Errorf("create resolver: %w", err)
	}
	for _, amb := range res.Ambiguities() {
		fmt.Fprintf(p.writer, "warning: %v\n", &amb)
	}

	g6 := graph.New()
	for relPath, module := range modules {
		for _, imp := range module.Imports {
			if imp.IsStar {
				continue
			}
			names := edgeNames(imp)
			if target, ok := res.Resolve(relPath, imp); ok {
				g6.AddEdge(relPath, target, imp.SourceModule, names, false)
			} else {
				g6.AddEdge(relPath, "", imp.SourceModule, names, true)
			}
		}
	}

	p.onProgress("cascade", "Running cross-file cascade...")
	crossResult := cascade.Analyze(cascade.Input{
		SingleFileUnused: singleFileUnused,
		Modules:          modules,
		Graph:            g6,
	})

	p.onProgress("render", "Rendering results...")
	if err := p.render(crossResult); err != nil {
		return err
	}

	if p.fix {
		p.onProgress("fix", "Removing unused imports...")
		if err := p.applyFix(dir, crossResult.UnusedImports, modules); err != nil {
			return fmt.Errorf("apply fixes: %w", err)
		}
	}

	if p.failOnUnused && len(crossResult.UnusedImports) > 0 {
		total := 0
		for _, v := range crossResult.UnusedImports {
			total += len(v)
		}
		return &types.ExitError{Code: 1, Message: fmt.Sprintf("%d unused import(s) found", total)}
	}

	return nil
}

// edgeNames returns the attribute name set an import edge carries: empty
// for a bare "import M" of a module object, {imp.ImportedAttr} for
// "from M import N" or "from M import N as A" (the underlying name, not
// the local alias, per spec.md §3's ImportEdge.names).
func edgeNames(imp types.ImportBinding) map[string]bool {
	if !imp.HasAttr {
		return map[string]bool{}
	}
	return map[string]bool{imp.ImportedAttr: true}
}

// applyFix rewrites every file with at least one confirmed-unused import,
// removing those bindings in place while preserving the rest of the file's
// formatting and mode.
func (p *Pipeline) applyFix(dir string, unused map[string][]types.ImportBinding, modules map[string]types.ModuleInfo) error {
	files := make([]string, 0, len(unused))
	for f := range unused {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, relPath := range files {
		absPath := filepath.Join(dir, filepath.FromSlash(relPath))
		info, err := os.Stat(absPath)
		if err != nil {
			return fmt.Errorf("%s: %w", relPath, err)
		}
		content, err := os.ReadFile(absPath)
		if err != nil {
			return fmt.Errorf("%s: %w", relPath, err)
		}
		rewritten := rewrite.Apply(content, modules[relPath].Imports, unused[relPath])
		if err := os.WriteFile(absPath, rewritten, info.Mode()); err != nil {
			return fmt.Errorf("%s: %w", relPath, err)
		}
	}
	return nil
}

// newFileBar returns a determinate progress bar over the per-file
// discover+parse+analyze fan-out, complementing the indeterminate
// spinner used for the cascade phase. It writes nothing when stderr
// isn't a TTY, the same convention the spinner follows.
func newFileBar(total int) *progressbar.ProgressBar {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return progressbar.NewOptions(total, progressbar.OptionSetWriter(io.Discard))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("analyzing files"),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *Pipeline) analyzeFile(rootDir, relPath string, tsParser *parser.Parser) fileAnalysis {
	absPath := filepath.Join(rootDir, filepath.FromSlash(relPath))
	content, err := os.ReadFile(absPath)
	if err != nil {
		return fileAnalysis{relPath: relPath, err: &types.IoFailure{Path: relPath, Cause: err}}
	}

	tree, err := tsParser.ParseFile(content)
	if err != nil {
		return fileAnalysis{relPath: relPath, err: err}
	}
	defer tree.Close()

	snippetParser := tsParser
	if !p.cfg.ScanTypeStrings {
		snippetParser = nil
	}

	_, fs := bindings.Extract(tree, content, snippetParser, p.cfg)
	result := singlefile.Analyze(fs, p.cfg, relPath)

	return fileAnalysis{relPath: relPath, unused: result.Unused, module: result.Module}
}

func (p *Pipeline) renderSingleFile(dir string, unused map[string][]types.ImportBinding, modules map[string]types.ModuleInfo) error {
	var renderErr error
	if p.jsonOutput {
		renderErr = output.RenderUnusedJSON(p.writer, unused)
	} else {
		output.RenderUnusedText(p.writer, unused)
	}
	if renderErr != nil {
		return renderErr
	}

	if p.fix {
		p.onProgress("fix", "Removing unused imports...")
		if err := p.applyFix(dir, unused, modules); err != nil {
			return fmt.Errorf("apply fixes: %w", err)
		}
	}

	if p.failOnUnused && len(unused) > 0 {
		total := 0
		for _, v := range unused {
			total += len(v)
		}
		return &types.ExitError{Code: 1, Message: fmt.Sprintf("%d unused import(s) found", total)}
	}
	return nil
}

func (p *Pipeline) render(result types.CrossFileResult) error {
	if p.jsonOutput {
		return output.RenderCrossFileJSON(p.writer, result)
	}
	output.RenderCrossFileText(p.writer, result)
	return nil
}

// Package resolver maps an import statement's module name (absolute or
// relative, as extracted by internal/bindings) to the project-relative
// file path it refers to, if any. Imports that resolve to nothing in the
// project (standard library, third-party packages) are left unresolved
// and never participate in cross-file cascade analysis.
package resolver

import (
	"path"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

// Resolver resolves dotted module names against a fixed set of project
// files, discovered up front by the pipeline's walk.
type Resolver struct {
	// moduleToFile maps a dotted module name to the project-relative
	// file path that implements it ("pkg.sub.mod" -> "pkg/sub/mod.py",
	// "pkg.sub" -> "pkg/sub/__init__.py").
	moduleToFile map[string]string

	ambiguities []types.ResolverAmbiguity

	cache *lru.Cache[string, string]
}

// New builds a Resolver from the project's discovered file list (each a
// project-relative path using "/" separators, as produced by
// internal/discovery). cacheSize bounds the resolution cache; pass 0 for
// a reasonable default.
//
// A module name is ambiguous when more than one file maps to it (the
// common case: "pkg/mod.py" and "pkg/mod/__init__.py" both name "pkg.mod").
// Per spec §4.5's probe order, the module file wins over the package
// __init__, and the remaining candidates are reported via Ambiguities.
func New(files []string, cacheSize int) (*Resolver, error) {
	if cacheSize <= 0 {
		cacheSize = 2048
	}
	c, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}

	candidates := make(map[string][]string)
	for _, f := range files {
		if m := FilePathToModule(f); m != "" {
			candidates[m] = append(candidates[m], f)
		}
	}

	r := &Resolver{
		moduleToFile: make(map[string]string, len(candidates)),
		cache:        c,
	}

	modules := make([]string, 0, len(candidates))
	for m := range candidates {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	for _, m := range modules {
		cands := candidates[m]
		if len(cands) == 1 {
			r.moduleToFile[m] = cands[0]
			continue
		}

		sorted := append([]string(nil), cands...)
		sort.Strings(sorted)
		r.moduleToFile[m] = preferModuleFileOverInit(sorted)
		r.ambiguities = append(r.ambiguities, types.ResolverAmbiguity{
			ModuleName: m,
			Candidates: sorted,
		})
	}

	return r, nil
}

// preferModuleFileOverInit picks the probe-order winner among candidates
// resolving to the same module name: a plain module file ("<path>.py")
// before a package's "__init__.py", matching spec §4.5.
func preferModuleFileOverInit(sortedCandidates []string) string {
	for _, c := range sortedCandidates {
		if !strings.HasSuffix(c, "/__init__.py") && c != "__init__.py" {
			return c
		}
	}
	return sortedCandidates[0]
}

// Ambiguities returns every module name that resolved to more than one
// project file, sorted by module name.
func (r *Resolver) Ambiguities() []types.ResolverAmbiguity {
	return r.ambiguities
}

// FilePathToModule converts a project-relative "/"-separated file path
// into its dotted module name, per standard package layout: a/b/c.py ->
// a.b.c, and a/b/__init__.py -> a.b (the package itself).
func FilePathToModule(relPath string) string {
	p := strings.TrimSuffix(relPath, ".py")
	p = strings.TrimSuffix(p, "/__init__")
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return strings.ReplaceAll(p, "/", ".")
}

// Resolve resolves one import binding's source module against fromFile
// (the project-relative path of the file containing the import) and
// returns the project-relative file path it refers to, and whether
// resolution succeeded.
func (r *Resolver) Resolve(fromFile string, b types.ImportBinding) (string, bool) {
	target := r.absoluteModuleName(fromFile, b)
	if target == "" {
		return "", false
	}

	key := fromFile + "\x00" + target
	if cached, ok := r.cache.Get(key); ok {
		if cached == "" {
			return "", false
		}
		return cached, true
	}

	file, ok := r.lookup(target)
	if ok {
		r.cache.Add(key, file)
		return file, true
	}
	r.cache.Add(key, "")
	return "", false
}

// lookup tries a dotted module name as both a plain module and a package.
func (r *Resolver) lookup(moduleName string) (string, bool) {
	if f, ok := r.moduleToFile[moduleName]; ok {
		return f, true
	}
	return "", false
}

// absoluteModuleName turns a (possibly relative) import binding into the
// absolute dotted module name it names, relative to fromFile's own
// package.
func (r *Resolver) absoluteModuleName(fromFile string, b types.ImportBinding) string {
	if b.Level == 0 {
		if b.SourceModule == "" {
			// `from . import x` with level 0 cannot happen; guard anyway.
			return ""
		}
		return b.SourceModule
	}

	// fromFile's own package directory is its containing directory.
	pkgDir := path.Dir(fromFile)
	if pkgDir == "." {
		pkgDir = ""
	}

	// Climb level-1 additional parent directories: level 1 means "this
	// package", level 2 means "the parent package", and so on.
	for i := 0; i < b.Level-1; i++ {
		pkgDir = path.Dir(pkgDir)
		if pkgDir == "." {
			pkgDir = ""
		}
	}

	base := FilePathToModule(pkgDir + "/__init__.py")
	if base == "" && pkgDir != "" {
		base = strings.ReplaceAll(pkgDir, "/", ".")
	}

	if b.SourceModule == "" {
		return base
	}
	if base == "" {
		return b.SourceModule
	}
	return base + "." + b.SourceModule
}

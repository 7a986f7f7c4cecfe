package scanner

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"
)

var errPackageNotFound = errors.New("package not found")

// loadMode is the standard set of information requested from the Go toolchain.
var loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedImports

// Package is the parsed view of a source package. Files holds every file of
// the directory regardless of build constraints, keyed by full path.
type Package struct {
	Name  string
	Path  string
	Dir   string
	Fset  *token.FileSet
	Files map[string]*ast.File
}

// Load loads package by its import path. buildTags are passed to the Go
// toolchain so stub-only packages still load.
func Load(path string, buildTags ...string) (*packages.Package, error) {
	pkgs, err := packages.Load(loadConfig(buildTags), path)
	if err != nil {
		return nil, err
	}

	if len(pkgs) < 1 {
		return nil, errPackageNotFound
	}

	if len(pkgs[0].Errors) > 0 {
		return nil, pkgs[0].Errors[0]
	}

	return pkgs[0], nil
}

// LoadAll loads multiple packages in a single batch call.
// This is significantly faster than calling Load in a loop because the Go
// toolchain resolves the shared dependency graph once for all packages.
// Packages that fail to load (e.g., no Go files) are silently omitted.
func LoadAll(paths []string, buildTags ...string) (map[string]*packages.Package, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	pkgs, err := packages.Load(loadConfig(buildTags), paths...)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*packages.Package, len(pkgs))
	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			continue
		}
		result[p.PkgPath] = p
	}
	return result, nil
}

func loadConfig(buildTags []string) *packages.Config {
	cfg := &packages.Config{Mode: loadMode}
	for _, tag := range buildTags {
		if tag != "" {
			cfg.BuildFlags = append(cfg.BuildFlags, "-tags="+tag)
		}
	}
	return cfg
}

// AST returns package's abstract syntax tree
func AST(fs *token.FileSet, p *packages.Package) (*Package, error) {
	dir := Dir(p)

	pkgs, err := parser.ParseDir(fs, dir, nil, parser.DeclarationErrors|parser.ParseComments)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", dir)
	}

	out := &Package{Name: p.Name, Path: p.PkgPath, Dir: dir, Fset: fs}
	if ap, ok := pkgs[p.Name]; ok {
		out.Files = ap.Files
	}
	return out, nil
}

// Dir returns absolute path of the package in a filesystem
func Dir(p *packages.Package) string {
	files := append([]string{}, p.GoFiles...)
	files = append(files, p.OtherFiles...)
	files = append(files, p.IgnoredFiles...)
	if len(files) < 1 {
		return p.PkgPath
	}

	return filepath.Dir(files[0])
}

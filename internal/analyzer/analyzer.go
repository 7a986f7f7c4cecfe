// Package analyzer reports activity declarations that cannot be generated
// as go/analysis diagnostics, so editors and vet drivers show them inline.
package analyzer

import (
	"flag"
	"go/ast"
	"path/filepath"

	"golang.org/x/tools/go/analysis"

	"github.com/tuanvm-tyson/activitygen/internal/codegen"
	"github.com/tuanvm-tyson/activitygen/internal/config"
	"github.com/tuanvm-tyson/activitygen/internal/diag"
	"github.com/tuanvm-tyson/activitygen/internal/emit"
	"github.com/tuanvm-tyson/activitygen/internal/scanner"
)

const doc = `activitygen reports annotated activity stubs that cannot be generated

ACTGEN0001 marks a stub whose activity source cannot be resolved.
ACTGEN0002 marks a stub whose kind is not specified; such a stub is not
generated either, but gets its own code instead of being reported as an
unresolved source.

Stubs live in files guarded by the activitygen build tag, so run the
analyzer with -tags activitygen.`

// Analyzer is the main entry point for the checker.
var Analyzer = &analysis.Analyzer{
	Name:  "activitygen",
	Doc:   doc,
	Flags: flags(),
	Run:   run,
}

// settings holds the flag values. Unset values are defaulted on each run so
// the handle type and constructor follow -runtime.
var settings config.Config

func flags() flag.FlagSet {
	defaults := config.Default()
	fs := flag.NewFlagSet("activitygen", flag.ExitOnError)
	fs.StringVar(&settings.Source, "source", "", "default activity source expression")
	fs.StringVar(&settings.HandleType, "handle-type", "", `printed type of an activity source (default "*<runtime>.Source")`)
	fs.StringVar(&settings.Constructor, "constructor", "", `function creating an activity source (default "<runtime>.NewSource")`)
	fs.StringVar(&settings.ContextType, "context-type", defaults.ContextType, "parameter type carrying the parent context")
	fs.StringVar(&settings.Runtime, "runtime", defaults.Runtime, "package qualifier of the activity runtime")
	return *fs
}

func run(pass *analysis.Pass) (any, error) {
	cfg := settings.WithDefaults()

	files, err := scanner.ScanPackage(packageOf(pass), scanner.Options{
		HandleType:   cfg.HandleType,
		Constructor:  cfg.Constructor,
		ModuleSource: cfg.Source,
	})
	if err != nil {
		return nil, err
	}

	o := codegen.Options{
		Emit: emit.Options{
			Runtime:     cfg.Runtime,
			ContextType: cfg.ContextType,
			Constructor: cfg.Constructor,
		},
		HandleType: cfg.HandleType,
	}

	for _, fc := range files {
		for _, c := range fc.Candidates {
			r := codegen.Generate(c, o)
			if r.Diagnostic == nil {
				continue
			}
			d := r.Diagnostic
			pass.Report(analysis.Diagnostic{
				Pos:      d.At.Pos,
				End:      d.At.End,
				Category: d.ID,
				Message:  d.ID + ": " + d.Message(diag.Language),
			})
		}
	}

	return nil, nil
}

// packageOf exposes the files of pass to the scanner.
func packageOf(pass *analysis.Pass) *scanner.Package {
	p := &scanner.Package{
		Name:  pass.Pkg.Name(),
		Path:  pass.Pkg.Path(),
		Fset:  pass.Fset,
		Files: make(map[string]*ast.File, len(pass.Files)),
	}

	for _, f := range pass.Files {
		name := pass.Fset.Position(f.Package).Filename
		p.Files[name] = f
		p.Dir = filepath.Dir(name)
	}
	return p
}

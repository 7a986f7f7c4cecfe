// Package generate implements the gen and check commands.
package generate

import (
	"context"
	"flag"
	"go/token"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tuanvm-tyson/activitygen/internal/cli"
	"github.com/tuanvm-tyson/activitygen/internal/codegen"
	"github.com/tuanvm-tyson/activitygen/internal/config"
	"github.com/tuanvm-tyson/activitygen/internal/diag"
	"github.com/tuanvm-tyson/activitygen/internal/emit"
	"github.com/tuanvm-tyson/activitygen/internal/logging"
	"github.com/tuanvm-tyson/activitygen/internal/scanner"
)

// TestSuffix is the file suffix for Go test files.
const TestSuffix = "_test.go"

// GenerateCommand implements cli.Command interface
type GenerateCommand struct {
	cli.BaseCommand

	sourcePkg       string
	configPath      string
	noGenerate      bool
	forceRegenerate bool
	verbose         bool

	// check reports diagnostics without writing files.
	check bool

	fs     fileSystem
	log    *zap.Logger
	stderr io.Writer
}

type fileSystem struct {
	WriteFile func(string, []byte, os.FileMode) error
}

// NewGenerateCommand creates the gen command.
func NewGenerateCommand() *GenerateCommand {
	gc := newCommand(false)
	gc.BaseCommand.Short = "generate activity bodies for annotated stubs"
	gc.BaseCommand.Usage = "[-p package] [-g] [--config path] [--force] [-v]"
	return gc
}

// NewCheckCommand creates the check command. It runs the whole pipeline and
// prints diagnostics but writes nothing.
func NewCheckCommand() *GenerateCommand {
	gc := newCommand(true)
	gc.BaseCommand.Short = "report activity diagnostics without writing files"
	gc.BaseCommand.Usage = "[-p package] [--config path] [-v]"
	return gc
}

func newCommand(check bool) *GenerateCommand {
	gc := &GenerateCommand{
		check: check,
		fs: fileSystem{
			WriteFile: os.WriteFile,
		},
		stderr: os.Stderr,
	}

	flags := &flag.FlagSet{}
	flags.StringVar(&gc.sourcePkg, "p", "", `source package path (default: "./")`)
	flags.StringVar(&gc.configPath, "config", "", `path to .activitygen.yaml config file (auto-detected if omitted)`)
	flags.BoolVar(&gc.verbose, "v", false, "log progress")
	if !check {
		flags.BoolVar(&gc.noGenerate, "g", false, "don't put //go:generate instruction to the generated code")
		flags.BoolVar(&gc.forceRegenerate, "force", false, "regenerate all packages regardless of file modification times")
	}

	gc.BaseCommand = cli.BaseCommand{Flags: flags}
	return gc
}

// Run implements cli.Command interface
func (gc *GenerateCommand) Run(args []string, stdout io.Writer) error {
	if err := gc.Parse(args); err != nil {
		return err
	}

	if gc.log == nil {
		gc.log = logging.NewCLI(gc.verbose)
		defer gc.log.Sync() //nolint:errcheck
	}

	cfg := config.Default()
	configPath := gc.configPath
	if configPath == "" {
		configPath = config.Find()
	}
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		gc.log.Debug("loaded config", zap.String("path", configPath))
	}
	if gc.noGenerate {
		cfg.NoGenerate = true
	}

	s := &session{
		cfg:      cfg,
		fset:     token.NewFileSet(),
		cache:    codegen.NewPackageCache(cfg.BuildTag),
		reporter: &diag.Reporter{},
	}

	ctx := context.Background()
	var err error
	if gc.sourcePkg == "" && configPath != "" && len(cfg.Packages) > 0 {
		err = gc.runWithConfig(ctx, s, configPath)
	} else {
		if gc.sourcePkg == "" {
			gc.sourcePkg = "./"
		}
		err = gc.runSinglePackage(ctx, s)
	}
	if err != nil {
		return err
	}

	out := gc.stderr
	if gc.check && stdout != nil {
		out = stdout
	}
	if err := s.reporter.Fprint(out); err != nil {
		return errors.Wrap(err, "failed to print diagnostics")
	}
	if s.reporter.HasErrors() {
		return errors.Errorf("%d activity declarations could not be generated", s.reporter.Len())
	}
	return nil
}

// session is the state shared by all packages of one run.
type session struct {
	cfg      *config.Config
	fset     *token.FileSet
	cache    *codegen.PackageCache
	reporter *diag.Reporter

	// generate is the go:generate command written to the first file of
	// each package.
	generate string
}

func (s *session) scanOptions(pc config.PackageConfig) scanner.Options {
	return scanner.Options{
		HandleType:   s.cfg.HandleType,
		Constructor:  s.cfg.Constructor,
		ModuleSource: pc.Source,
		BuildTag:     s.cfg.BuildTag,
		Ignore:       pc.Ignored(),
	}
}

func (s *session) generateOptions() codegen.Options {
	return codegen.Options{
		Emit: emit.Options{
			Runtime:     s.cfg.Runtime,
			ContextType: s.cfg.ContextType,
			Constructor: s.cfg.Constructor,
		},
		HandleType: s.cfg.HandleType,
		Workers:    s.cfg.Workers,
	}
}

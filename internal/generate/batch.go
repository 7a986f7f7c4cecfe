package generate

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/tuanvm-tyson/activitygen/internal/codegen"
	"github.com/tuanvm-tyson/activitygen/internal/config"
	"github.com/tuanvm-tyson/activitygen/internal/scanner"
)

// runWithConfig processes all packages defined in a .activitygen.yaml config file.
func (gc *GenerateCommand) runWithConfig(ctx context.Context, s *session, configPath string) error {
	resolved, err := s.cfg.ResolvePackages()
	if err != nil {
		return errors.Wrap(err, "failed to resolve packages from config")
	}

	s.generate = "activitygen gen"
	if len(resolved) == 0 {
		gc.log.Debug("no packages to process")
		return nil
	}

	// Every package is scanned so its diagnostics are reported on each run;
	// packages that are up to date only skip the write.
	stale := make(map[string]bool, len(resolved))
	toWrite := resolved
	if !gc.forceRegenerate && !gc.check {
		toWrite = gc.stalePackages(resolved, configPath, s.cfg.OutputSuffix)
	}
	for _, rp := range toWrite {
		stale[rp.ImportPath] = true
	}

	importPaths := make([]string, len(resolved))
	for i, rp := range resolved {
		importPaths[i] = rp.ImportPath
	}

	pkgMap, err := scanner.LoadAll(importPaths, s.cfg.BuildTag)
	if err != nil {
		return errors.Wrap(err, "failed to batch-load source packages")
	}
	s.cache.Seed(pkgMap)

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(resolved) {
		workers = len(resolved)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, rp := range resolved {
		sourcePkg, ok := pkgMap[rp.ImportPath]
		if !ok {
			gc.log.Warn("package could not be loaded", zap.String("package", rp.ImportPath))
			continue
		}

		if len(sourcePkg.GoFiles) == 0 && len(sourcePkg.IgnoredFiles) == 0 {
			continue
		}

		g.Go(func() error {
			if err := gc.processPackage(gctx, s, rp.ImportPath, rp.Config, sourcePkg, stale[rp.ImportPath]); err != nil {
				return errors.Wrapf(err, "failed to generate for package %s", rp.ImportPath)
			}
			return nil
		})
	}

	return g.Wait()
}

// stalePackages returns the packages whose generated files must be rewritten:
// it drops those whose generated files are newer than both their sources and
// the config file. Without a module root every package is kept.
func (gc *GenerateCommand) stalePackages(resolved []config.ResolvedPackage, configPath, suffix string) []config.ResolvedPackage {
	moduleRoot, modulePath, err := findModuleRoot(filepath.Dir(configPath))
	if err != nil {
		return resolved
	}
	configTime := fileModTime(configPath)

	var lastRunTime time.Time
	for _, rp := range resolved {
		srcDir := importPathToDir(moduleRoot, modulePath, rp.ImportPath)
		if srcDir == "" {
			continue
		}
		if t := newestGeneratedModTime(srcDir, suffix); t.After(lastRunTime) {
			lastRunTime = t
		}
	}

	var filtered []config.ResolvedPackage
	for _, rp := range resolved {
		srcDir := importPathToDir(moduleRoot, modulePath, rp.ImportPath)
		if srcDir == "" {
			filtered = append(filtered, rp)
			continue
		}
		newestOutput := newestGeneratedModTime(srcDir, suffix)

		if !newestOutput.IsZero() {
			if sourceNewerThan(srcDir, newestOutput, suffix) ||
				configTime.After(newestOutput) {
				filtered = append(filtered, rp)
			}
			continue
		}

		if lastRunTime.IsZero() ||
			sourceNewerThan(srcDir, lastRunTime, suffix) ||
			configTime.After(lastRunTime) {
			filtered = append(filtered, rp)
		}
	}

	gc.log.Debug("incremental check",
		zap.Int("packages", len(resolved)),
		zap.Int("stale", len(filtered)))
	return filtered
}

// processPackage generates the activity files for a single package and
// reports its diagnostics. Files are written only when write is set.
func (gc *GenerateCommand) processPackage(
	ctx context.Context,
	s *session,
	importPath string,
	pc config.PackageConfig,
	sourcePackage *packages.Package,
	write bool,
) error {
	log := gc.log.With(zap.String("package", importPath))

	astPkg, err := s.cache.AST(s.fset, sourcePackage)
	if err != nil {
		return errors.Wrap(err, "failed to parse source package AST")
	}

	files, err := scanner.ScanPackage(astPkg, s.scanOptions(pc))
	if err != nil {
		return errors.Wrap(err, "failed to scan declarations")
	}

	wroteGoGenerate := false
	for _, fc := range files {
		for _, w := range fc.Warnings {
			log.Warn(w)
		}

		results, err := codegen.GenerateAll(ctx, fc.Candidates, s.generateOptions())
		if err != nil {
			return err
		}
		failed := codegen.Report(results, s.reporter)
		bodies := codegen.Bodies(results)

		log.Debug("processed file",
			zap.String("file", fc.FileName),
			zap.Int("generated", len(bodies)),
			zap.Int("failed", failed))

		if len(bodies) == 0 {
			continue
		}

		outPath := filepath.Join(filepath.Dir(fc.Path), outputName(fc.FileName, s.cfg.OutputSuffix))
		spec := codegen.FileSpec{
			Path:          outPath,
			Package:       astPkg.Name,
			Source:        fc.FileName,
			BuildTag:      s.cfg.BuildTag,
			Imports:       fc.Imports,
			RuntimeImport: s.cfg.RuntimeImport,
			Bodies:        bodies,
		}

		// Only write //go:generate in the first output file
		if !s.cfg.NoGenerate && !wroteGoGenerate {
			spec.Generate = s.generate
			wroteGoGenerate = true
		}

		out, collisions, err := codegen.AssembleFile(spec)
		for _, c := range collisions {
			log.Warn("activity declared twice, the later declaration wins",
				zap.String("key", c.Key),
				zap.String("replaced", c.Replaced),
				zap.String("winner", c.Winner))
		}
		if err != nil {
			return errors.Wrapf(err, "failed to generate for %s", fc.FileName)
		}

		if gc.check {
			continue
		}
		if !write {
			log.Debug("up to date", zap.String("path", outPath))
			continue
		}
		if err := gc.fs.WriteFile(outPath, out, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", outPath)
		}
		log.Debug("wrote file", zap.String("path", outPath))
	}

	return nil
}

// outputName returns the generated file name for a stub file.
func outputName(fileName, suffix string) string {
	return strings.TrimSuffix(fileName, ".go") + suffix
}

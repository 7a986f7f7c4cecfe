package generate

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tuanvm-tyson/activitygen/internal/config"
)

// runSinglePackage generates the package named by -p using the global
// settings of the configuration.
func (gc *GenerateCommand) runSinglePackage(ctx context.Context, s *session) error {
	sourcePackage, err := s.cache.Load(gc.sourcePkg)
	if err != nil {
		return errors.Wrap(err, "failed to load source package")
	}

	s.generate = "activitygen gen -p " + sourcePackage.PkgPath

	pc := config.PackageConfig{Source: s.cfg.Source}
	if c := s.cfg.Packages[sourcePackage.PkgPath]; c != nil {
		pc.Declarations = c.Declarations
		if c.Source != "" {
			pc.Source = c.Source
		}
	}

	return gc.processPackage(ctx, s, sourcePackage.PkgPath, pc, sourcePackage, true)
}

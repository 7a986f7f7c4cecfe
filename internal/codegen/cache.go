package codegen

import (
	"go/token"
	"sync"

	"golang.org/x/tools/go/packages"

	"github.com/tuanvm-tyson/activitygen/internal/scanner"
)

// PackageCache caches loaded packages and parsed ASTs so a package reached
// from several configured patterns is only loaded and parsed once.
// All methods are safe for concurrent use by multiple goroutines.
type PackageCache struct {
	mu        sync.RWMutex
	buildTags []string
	loaded    map[string]*packages.Package
	asts      map[string]*scanner.Package
}

// NewPackageCache returns an empty PackageCache. buildTags are used for
// packages that were not seeded.
func NewPackageCache(buildTags ...string) *PackageCache {
	return &PackageCache{
		buildTags: buildTags,
		loaded:    make(map[string]*packages.Package),
		asts:      make(map[string]*scanner.Package),
	}
}

// Seed pre-populates the cache with already-loaded packages (e.g. from batch loading).
func (c *PackageCache) Seed(pkgs map[string]*packages.Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for path, p := range pkgs {
		c.loaded[path] = p
	}
}

// Load returns the package at path, loading it on first use.
func (c *PackageCache) Load(path string) (*packages.Package, error) {
	c.mu.RLock()
	if p, ok := c.loaded[path]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	p, err := scanner.Load(path, c.buildTags...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.loaded[path] = p
	c.mu.Unlock()
	return p, nil
}

// AST returns the parsed package, parsing it on first use.
func (c *PackageCache) AST(fs *token.FileSet, p *packages.Package) (*scanner.Package, error) {
	c.mu.RLock()
	if a, ok := c.asts[p.PkgPath]; ok {
		c.mu.RUnlock()
		return a, nil
	}
	c.mu.RUnlock()

	a, err := scanner.AST(fs, p)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.asts[p.PkgPath] = a
	c.mu.Unlock()
	return a, nil
}

// Package config reads the .activitygen.yaml project configuration.
package config

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file.
const FileName = ".activitygen.yaml"

// Config represents the top-level .activitygen.yaml configuration.
type Config struct {
	// BuildTag guards the stub files; generated files carry its negation
	// (default: "activitygen").
	BuildTag string `yaml:"build-tag"`

	// OutputSuffix replaces ".go" in the stub file name to form the generated
	// file name (default: "_activity.go").
	OutputSuffix string `yaml:"output-suffix"`

	// Runtime is the package qualifier used in generated code and
	// RuntimeImport its import path.
	Runtime       string `yaml:"runtime"`
	RuntimeImport string `yaml:"runtime-import"`

	// ContextType is the parameter type treated as the parent context.
	ContextType string `yaml:"context-type"`

	// HandleType and Constructor describe the tracing source handle.
	HandleType  string `yaml:"handle-type"`
	Constructor string `yaml:"constructor"`

	// Source is the default handle reference for every package, used when
	// neither the declaration nor its scope names one.
	Source string `yaml:"source"`

	// NoGenerate disables //go:generate tags in generated files.
	NoGenerate bool `yaml:"no-generate"`

	// Exclude lists path segments to skip when expanding "..." patterns.
	// A package is excluded if any segment in its import path matches an entry.
	// For example, "mock" excludes "app/service/mock" and "app/service/mock/sub"
	// but NOT "app/mockservice".
	Exclude []string `yaml:"exclude"`

	// Workers limits parallel package processing (default: number of CPUs).
	Workers int `yaml:"workers"`

	// Packages maps package import paths (or patterns ending in /...) to per-package config.
	Packages map[string]*PackageConfig `yaml:"packages"`
}

// PackageConfig holds per-package generation settings.
type PackageConfig struct {
	// Source overrides the global default handle reference.
	Source string `yaml:"source"`

	// Declarations maps "Name" or "Type.Name" to per-declaration config.
	Declarations map[string]*DeclarationConfig `yaml:"declarations"`
}

// DeclarationConfig holds per-declaration generation settings.
type DeclarationConfig struct {
	// Ignore skips this declaration during generation.
	Ignore bool `yaml:"ignore"`
}

// Ignored returns the set of declarations to skip.
func (p PackageConfig) Ignored() map[string]bool {
	ignored := make(map[string]bool)
	for name, d := range p.Declarations {
		if d != nil && d.Ignore {
			ignored[name] = true
		}
	}
	return ignored
}

// ResolvedPackage is a single package to process after pattern expansion.
type ResolvedPackage struct {
	// ImportPath is the fully-qualified Go import path.
	ImportPath string

	// Config is the merged package-level configuration.
	Config PackageConfig
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// WithDefaults returns a copy of c with every unset setting defaulted. The
// handle type and constructor follow the runtime qualifier.
func (c Config) WithDefaults() *Config {
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.BuildTag == "" {
		c.BuildTag = "activitygen"
	}
	if c.OutputSuffix == "" {
		c.OutputSuffix = "_activity.go"
	}
	if c.Runtime == "" {
		c.Runtime = "activity"
	}
	if c.RuntimeImport == "" {
		c.RuntimeImport = "github.com/tuanvm-tyson/activitygen/activity"
	}
	if c.ContextType == "" {
		c.ContextType = "context.Context"
	}
	if c.HandleType == "" {
		c.HandleType = "*" + c.Runtime + ".Source"
	}
	if c.Constructor == "" {
		c.Constructor = c.Runtime + ".NewSource"
	}
}

// Load reads and parses a .activitygen.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if cfg.Workers < 0 {
		return nil, errors.Errorf("invalid workers value %d", cfg.Workers)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Find walks up from the current working directory looking for .activitygen.yaml.
// Returns the absolute path if found, or empty string if not found.
func Find() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return FindFrom(dir)
}

// FindFrom walks up from dir looking for .activitygen.yaml.
func FindFrom(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// ResolvePackages expands package patterns (e.g. ./...) and returns
// a flat list of concrete packages to process, ordered by pattern.
func (c *Config) ResolvePackages() ([]ResolvedPackage, error) {
	if len(c.Packages) == 0 {
		return nil, errors.New("no packages defined in config")
	}

	patterns := make([]string, 0, len(c.Packages))
	for pattern := range c.Packages {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	var result []ResolvedPackage
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		pkgCfg := c.Packages[pattern]
		if pkgCfg == nil {
			pkgCfg = &PackageConfig{}
		}

		merged := c.mergePackageConfig(pkgCfg)

		paths := []string{pattern}
		if strings.HasSuffix(pattern, "/...") {
			var err error
			paths, err = goListPackages(pattern, c.BuildTag)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to resolve pattern %q", pattern)
			}
		}

		for _, p := range paths {
			if seen[p] || (pattern != p && c.shouldExclude(p)) {
				continue
			}
			seen[p] = true
			result = append(result, ResolvedPackage{
				ImportPath: p,
				Config:     merged,
			})
		}
	}

	return result, nil
}

// shouldExclude returns true if importPath contains a path segment matching
// any entry in Config.Exclude. Matching is exact per segment: "mock" matches
// "app/mock" and "app/mock/sub" but not "app/mockservice".
func (c *Config) shouldExclude(importPath string) bool {
	for _, seg := range c.Exclude {
		suffix := "/" + seg
		if strings.HasSuffix(importPath, suffix) || strings.Contains(importPath, suffix+"/") {
			return true
		}
	}
	return false
}

// mergePackageConfig applies global defaults to a package config.
func (c *Config) mergePackageConfig(pkgCfg *PackageConfig) PackageConfig {
	merged := *pkgCfg
	if merged.Source == "" {
		merged.Source = c.Source
	}
	return merged
}

// goListPackages uses `go list` to expand a package pattern. Packages that
// only hold stubs are listed through buildTag.
func goListPackages(pattern, buildTag string) ([]string, error) {
	args := []string{"list"}
	if buildTag != "" {
		args = append(args, "-tags="+buildTag)
	}
	cmd := exec.Command("go", append(args, pattern)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "go list %s: %s", pattern, stderr.String())
	}

	var paths []string
	for _, line := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}

	return paths, nil
}

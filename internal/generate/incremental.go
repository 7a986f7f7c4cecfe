package generate

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/mod/modfile"
)

// findModuleRoot walks up from startDir to find go.mod and returns the
// directory containing it (module root) and the module path declared in it.
func findModuleRoot(startDir string) (rootDir, modulePath string, err error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", "", err
	}

	for {
		gomod := filepath.Join(dir, "go.mod")
		data, err := os.ReadFile(gomod)
		if err == nil {
			if modPath := modfile.ModulePath(data); modPath != "" {
				return dir, modPath, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", "", errors.New("go.mod not found")
}

// importPathToDir converts a fully-qualified Go import path to a filesystem
// directory by stripping the module prefix and joining with the module root.
// Returns "" if the import path is not within the module.
func importPathToDir(moduleRoot, modulePath, importPath string) string {
	if importPath != modulePath && !strings.HasPrefix(importPath, modulePath+"/") {
		return ""
	}
	rel := strings.TrimPrefix(importPath, modulePath)
	return filepath.Join(moduleRoot, filepath.FromSlash(rel))
}

// fileModTime returns the modification time of a file, or zero time on error.
func fileModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// newestGeneratedModTime returns the newest modification time among the
// generated files in dir.
func newestGeneratedModTime(dir, suffix string) time.Time {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return time.Time{}
	}
	generated := generatedNames(entries, suffix)
	var newest time.Time
	for _, e := range entries {
		if !generated[e.Name()] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	return newest
}

// sourceNewerThan checks whether any non-test, non-generated .go file in
// srcDir has a modification time strictly after threshold.
func sourceNewerThan(srcDir string, threshold time.Time, suffix string) bool {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return true
	}
	generated := generatedNames(entries, suffix)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, TestSuffix) || generated[name] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return true
		}
		if info.ModTime().After(threshold) {
			return true
		}
	}
	return false
}

// generatedNames returns the files of a directory that are outputs of a stub
// file next to them. A file carrying the suffix without its stub is a source.
func generatedNames(entries []os.DirEntry, suffix string) map[string]bool {
	files := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files[e.Name()] = true
		}
	}

	generated := make(map[string]bool)
	for name := range files {
		if strings.HasSuffix(name, suffix) && files[strings.TrimSuffix(name, suffix)+".go"] {
			generated[name] = true
		}
	}
	return generated
}

// Package datafiles expands declarative data_files patterns into install
// entries.
package datafiles

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/batterymon/batterymon/internal/domain/locale"
	sharedConfig "github.com/batterymon/batterymon/internal/shared/config"
	apperrors "github.com/batterymon/batterymon/internal/shared/errors"
	"github.com/batterymon/batterymon/internal/shared/logger"
)

// Resolver globs data file patterns relative to a project root.
type Resolver struct {
	root   string
	logger logger.Interface
}

func NewResolver(root string, log logger.Interface) *Resolver {
	return &Resolver{
		root:   root,
		logger: log.With("component", "datafiles"),
	}
}

// Resolve returns one entry per configured directory that matched at least
// one file. Files are deduplicated and sorted within an entry.
func (r *Resolver) Resolve(specs []sharedConfig.DataFileConfig) ([]locale.InstallEntry, error) {
	var entries []locale.InstallEntry

	for _, spec := range specs {
		files, err := Glob(r.root, spec.Patterns)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			r.logger.Debugw("data file patterns matched nothing", "dir", spec.Dir, "patterns", spec.Patterns)
			continue
		}
		entries = append(entries, locale.InstallEntry{Dir: spec.Dir, Files: files})
	}

	return entries, nil
}

// Glob matches doublestar patterns against regular files under root and
// returns their paths joined to root, sorted and without duplicates.
func Glob(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid glob pattern %q", pattern))
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to glob %q: %w", pattern, err)
		}

		for _, m := range matches {
			path := filepath.Join(root, filepath.FromSlash(m))
			if seen[path] {
				continue
			}
			seen[path] = true
			files = append(files, path)
		}
	}

	slices.Sort(files)
	return files, nil
}

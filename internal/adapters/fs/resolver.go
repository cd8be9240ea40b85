package fs

import (
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ImageResolver = (*Resolver)(nil)

// Resolver expands file, directory and glob arguments into image paths.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveImages resolves the given patterns relative to root to a sorted, de-duplicated
// list of absolute image paths.
func (r *Resolver) ResolveImages(patterns []string, root string) ([]string, error) {
	uniquePaths := make(map[string]bool)

	for _, pattern := range patterns {
		path := pattern
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, pattern)
		}

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
		}

		if len(matches) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrImageNotFound, "no file matches"), "path", path)
		}

		for _, match := range matches {
			if err := r.collect(match, uniquePaths); err != nil {
				return nil, err
			}
		}
	}

	result := make([]string, 0, len(uniquePaths))
	for path := range uniquePaths {
		result = append(result, path)
	}
	sort.Strings(result)

	return result, nil
}

func (r *Resolver) collect(path string, into map[string]bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}

	if !info.IsDir() {
		abs, err := filepath.Abs(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", path)
		}
		into[abs] = true
		return nil
	}

	for image := range r.walker.WalkImages(path, nil) {
		abs, err := filepath.Abs(image)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", image)
		}
		into[abs] = true
	}
	return nil
}

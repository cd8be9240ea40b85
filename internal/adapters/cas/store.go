// Package cas implements the durable artifact store for generated previews.
package cas

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactStore = (*Store)(nil)

// Store implements ports.ArtifactStore using a file-per-key strategy.
type Store struct {
	dir string
}

// NewStore creates a new ArtifactStore backed by the directory at the given path.
// The directory is created lazily on the first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the artifact location for key.
func (s *Store) Path(key domain.CacheKey) string {
	return domain.ArtifactPath(s.dir, key)
}

// Exists reports whether an artifact is stored for key.
func (s *Store) Exists(key domain.CacheKey) (bool, error) {
	info, err := os.Stat(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(domain.WithCause(domain.ErrArtifactStatFailed, err), "key", key.String())
	}
	return info.Mode().IsRegular(), nil
}

// Read returns the stored markup for key.
func (s *Store) Read(key domain.CacheKey) (string, error) {
	//nolint:gosec // Path is constructed from trusted directory and derived key
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		return "", zerr.With(domain.WithCause(domain.ErrArtifactReadFailed, err), "key", key.String())
	}
	return string(data), nil
}

// Write stores svg under key. The markup is written to a temporary file in the
// same directory and renamed into place, so readers never see a partial artifact.
func (s *Store) Write(key domain.CacheKey, svg string) error {
	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.With(domain.WithCause(domain.ErrArtifactWriteFailed, err), "dir", s.dir)
	}

	tmp, err := os.CreateTemp(s.dir, "."+key.String()+"-*.tmp")
	if err != nil {
		return zerr.With(domain.WithCause(domain.ErrArtifactWriteFailed, err), "key", key.String())
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Already renamed on success

	if _, err := tmp.WriteString(svg); err != nil {
		_ = tmp.Close()
		return zerr.With(domain.WithCause(domain.ErrArtifactWriteFailed, err), "key", key.String())
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		return zerr.With(domain.WithCause(domain.ErrArtifactWriteFailed, err), "key", key.String())
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(domain.WithCause(domain.ErrArtifactWriteFailed, err), "key", key.String())
	}

	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		return zerr.With(domain.WithCause(domain.ErrArtifactWriteFailed, err), "key", key.String())
	}
	return nil
}

// Size returns the number of bytes held below the store directory.
func (s *Store) Size() (int64, error) {
	var total int64
	err := filepath.WalkDir(s.dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, zerr.With(zerr.Wrap(err, "failed to measure cache"), "dir", s.dir)
	}
	return total, nil
}

// Clean removes the store directory and everything below it.
// It returns the number of bytes freed.
func (s *Store) Clean() (int64, error) {
	size, err := s.Size()
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return 0, zerr.With(domain.WithCause(domain.ErrCleanFailed, err), "dir", s.dir)
	}
	return size, nil
}

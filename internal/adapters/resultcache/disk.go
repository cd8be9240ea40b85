package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ResultCache = (*DiskCache)(nil)

// DiskCache persists results as zstd-compressed JSON, one file per key.
type DiskCache struct {
	dir string

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	stats Stats
}

// NewDiskCache creates a disk cache rooted at dir using the given zstd level (1-22).
// The directory is created lazily on the first write.
func NewDiskCache(dir string, compressionLevel int) (*DiskCache, error) {
	if compressionLevel < 1 {
		compressionLevel = domain.DefaultCompressionLevel
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd encoder")
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		return nil, zerr.Wrap(err, "failed to create zstd decoder")
	}

	return &DiskCache{
		dir:     dir,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Get reads the entry for key. Unreadable or corrupt entries are removed and
// reported as misses.
func (c *DiskCache) Get(_ context.Context, key domain.CacheKey) (*domain.PreviewResult, error) {
	path := c.path(key)

	//nolint:gosec // Path is constructed from trusted directory and derived key
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.record(func(s *Stats) { s.Misses++ })
			return nil, nil
		}
		return nil, zerr.With(domain.WithCause(domain.ErrResultCacheReadFailed, err), "key", key.String())
	}

	result, err := c.decode(data)
	if err != nil {
		_ = os.Remove(path)
		c.record(func(s *Stats) {
			s.Misses++
			s.Evictions++
		})
		return nil, nil
	}

	c.record(func(s *Stats) { s.Hits++ })
	return result, nil
}

// Set writes the entry for key through a temporary file and a rename.
func (c *DiskCache) Set(_ context.Context, key domain.CacheKey, result domain.PreviewResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return zerr.With(domain.WithCause(domain.ErrResultCacheWriteFailed, err), "key", key.String())
	}
	compressed := c.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2))

	if err := os.MkdirAll(c.dir, domain.DirPerm); err != nil {
		return zerr.With(domain.WithCause(domain.ErrResultCacheWriteFailed, err), "dir", c.dir)
	}

	tmp, err := os.CreateTemp(c.dir, ".result-*.tmp")
	if err != nil {
		return zerr.With(domain.WithCause(domain.ErrResultCacheWriteFailed, err), "key", key.String())
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(compressed); err != nil {
		_ = tmp.Close()
		return zerr.With(domain.WithCause(domain.ErrResultCacheWriteFailed, err), "key", key.String())
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(domain.WithCause(domain.ErrResultCacheWriteFailed, err), "key", key.String())
	}
	if err := os.Rename(tmpName, c.path(key)); err != nil {
		return zerr.With(domain.WithCause(domain.ErrResultCacheWriteFailed, err), "key", key.String())
	}
	return nil
}

// Stats returns cache statistics.
func (c *DiskCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	if matches, err := filepath.Glob(filepath.Join(c.dir, "*"+domain.ResultExt)); err == nil {
		stats.Entries = int64(len(matches))
	}
	return stats
}

// Close releases the compression resources.
func (c *DiskCache) Close() error {
	c.decoder.Close()
	return c.encoder.Close()
}

func (c *DiskCache) path(key domain.CacheKey) string {
	return filepath.Join(c.dir, key.String()+domain.ResultExt)
}

func (c *DiskCache) decode(data []byte) (*domain.PreviewResult, error) {
	raw, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}
	var result domain.PreviewResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *DiskCache) record(update func(*Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	update(&c.stats)
}

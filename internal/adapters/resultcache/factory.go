package resultcache

import (
	"context"

	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/zerr"
)

// New builds the backend selected by cfg.Backend. The disk backend stores its
// entries below cacheDir.
func New(ctx context.Context, cfg domain.CacheConfig, cacheDir string) (ports.ResultCache, error) {
	switch cfg.Backend {
	case "", domain.CacheBackendMemory:
		return NewMemoryCache(cfg.MemoryEntries), nil
	case domain.CacheBackendDisk:
		return NewDiskCache(domain.ResultsPath(cacheDir), cfg.CompressionLevel)
	case domain.CacheBackendRedis:
		return DialRedis(ctx, cfg.Redis)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownCacheBackend, "cannot open result cache"), "backend", cfg.Backend)
	}
}

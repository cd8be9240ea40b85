package ports

import "go.trai.ch/sqip/internal/core/domain"

// ArtifactStore persists generated vector markup, one file per cache key.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// Exists reports whether an artifact is stored for key.
	Exists(key domain.CacheKey) (bool, error)

	// Read returns the stored markup for key.
	Read(key domain.CacheKey) (string, error)

	// Write stores svg under key, replacing any previous artifact.
	Write(key domain.CacheKey, svg string) error
}

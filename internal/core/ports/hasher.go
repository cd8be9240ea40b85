package ports

import "go.trai.ch/sqip/internal/core/domain"

// Hasher derives cache keys and content digests.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileDigest returns the hex content digest of the file at path.
	ComputeFileDigest(path string) (string, error)

	// DeriveKey combines a content digest and the generation options into a cache key.
	// It is pure: equal inputs always yield the same key.
	DeriveKey(contentDigest string, opts domain.Options) domain.CacheKey
}

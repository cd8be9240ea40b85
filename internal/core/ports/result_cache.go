package ports

import (
	"context"

	"go.trai.ch/sqip/internal/core/domain"
)

// ResultCache is the fast key-value tier in front of the artifact store.
//
//go:generate mockgen -source=result_cache.go -destination=mocks/mock_result_cache.go -package=mocks
type ResultCache interface {
	// Get returns the cached result for key.
	// Returns nil, nil if not found.
	Get(ctx context.Context, key domain.CacheKey) (*domain.PreviewResult, error)

	// Set stores result under key.
	Set(ctx context.Context, key domain.CacheKey, result domain.PreviewResult) error
}

package ports

import (
	"context"

	"go.trai.ch/sqip/internal/core/domain"
)

// Tracer converts a raster image into vector markup made of a few primitives.
// It is expensive and is only ever invoked from inside the generation queue.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	Trace(ctx context.Context, imagePath string, opts domain.Options) (string, error)
}

// Package generator produces cached SQIP previews.
package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/sqip/internal/engine/queue"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Option configures a Generator.
type Option func(*Generator)

// WithPolicy selects what happens when the result cache already holds the preview.
func WithPolicy(policy domain.CachePolicy) Option {
	return func(g *Generator) {
		g.policy = policy
	}
}

// WithCoalescing makes concurrent requests for the same key share one queued
// generation. The context of the first caller governs the shared run.
func WithCoalescing(enabled bool) Option {
	return func(g *Generator) {
		g.coalesce = enabled
	}
}

// Generator derives cache keys, consults the result cache and the artifact store,
// and traces images on the queue when neither holds the preview.
type Generator struct {
	hasher    ports.Hasher
	cache     ports.ResultCache
	store     ports.ArtifactStore
	tracer    ports.Tracer
	encoder   ports.Encoder
	queue     *queue.Queue
	logger    ports.Logger
	telemetry ports.Telemetry

	policy   domain.CachePolicy
	coalesce bool
	group    *singleflight.Group
}

// New creates a new Generator.
func New(
	hasher ports.Hasher,
	cache ports.ResultCache,
	store ports.ArtifactStore,
	tracer ports.Tracer,
	encoder ports.Encoder,
	q *queue.Queue,
	logger ports.Logger,
	telemetry ports.Telemetry,
	opts ...Option,
) *Generator {
	g := &Generator{
		hasher:    hasher,
		cache:     cache,
		store:     store,
		tracer:    tracer,
		encoder:   encoder,
		queue:     q,
		logger:    logger,
		telemetry: telemetry,
		policy:    domain.PolicyReturnCached,
		group:     &singleflight.Group{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithStore returns a Generator persisting artifacts to store. It shares the queue,
// the tracer and the result cache with g, so generations stay serialized.
func (g *Generator) WithStore(store ports.ArtifactStore) *Generator {
	c := *g
	c.store = store
	c.group = &singleflight.Group{}
	return &c
}

// Generate returns the preview for req. The lookup and any tracing run as a single
// task on the queue, so at most one generation is in progress at a time.
// A request without a content digest has it computed from the image file.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.PreviewResult, error) {
	if err := req.Validate(); err != nil {
		return domain.PreviewResult{}, err
	}

	if req.ContentDigest == "" {
		digest, err := g.hasher.ComputeFileDigest(req.ImagePath)
		if err != nil {
			return domain.PreviewResult{}, err
		}
		req.ContentDigest = digest
	}

	key := g.hasher.DeriveKey(req.ContentDigest, req.Options)
	g.logger.Debug(fmt.Sprintf("request preview generation for %s (%s)", displayName(req.ImagePath), key))

	if !g.coalesce {
		return g.enqueue(ctx, key, req)
	}

	v, err, shared := g.group.Do(key.String(), func() (any, error) {
		return g.enqueue(ctx, key, req)
	})
	if shared {
		g.logger.Debug(fmt.Sprintf("shared in-flight generation for %s (%s)", displayName(req.ImagePath), key))
	}
	if err != nil {
		return domain.PreviewResult{}, err
	}
	result, _ := v.(domain.PreviewResult)
	return result, nil
}

func (g *Generator) enqueue(
	ctx context.Context,
	key domain.CacheKey,
	req domain.GenerationRequest,
) (domain.PreviewResult, error) {
	if waiting := g.queue.Pending(); waiting > 0 {
		g.logger.Debug(fmt.Sprintf("queued preview generation for %s (%s) behind %d waiting", displayName(req.ImagePath), key, waiting))
	}
	return queue.Run(ctx, g.queue, func(ctx context.Context) (domain.PreviewResult, error) {
		return g.generate(ctx, key, req)
	})
}

func (g *Generator) generate(
	ctx context.Context,
	key domain.CacheKey,
	req domain.GenerationRequest,
) (result domain.PreviewResult, err error) {
	name := displayName(req.ImagePath)

	ctx, span := g.telemetry.Start(ctx, "sqip.generate",
		ports.WithAttribute("sqip.key", key.String()),
		ports.WithAttribute("sqip.image", req.ImagePath),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	g.logger.Debug(fmt.Sprintf("executing preview generation for %s (%s)", name, key))

	cached, err := g.cache.Get(ctx, key)
	if err != nil {
		g.logger.Warn(fmt.Sprintf("result cache lookup failed for %s: %v", key, err))
		cached = nil
	}

	var markup string
	switch {
	case cached != nil && g.policy == domain.PolicyReturnCached:
		span.SetAttribute("sqip.cache", "hit")
		g.logger.Debug(fmt.Sprintf("result cache hit for %s (%s)", name, key))
		return domain.NewPreviewResult(cached.SVG, g.encoder.DataURI), nil

	case cached != nil:
		span.SetAttribute("sqip.cache", "regenerate")
		g.logger.Debug(fmt.Sprintf("result cache hit for %s (%s), regenerating", name, key))
		if markup, err = g.trace(ctx, key, req); err != nil {
			return domain.PreviewResult{}, err
		}

	default:
		markup, err = g.load(ctx, span, key, req)
		if err != nil {
			return domain.PreviewResult{}, err
		}
	}

	result = domain.NewPreviewResult(markup, g.encoder.DataURI)
	if err := g.cache.Set(ctx, key, result); err != nil {
		g.logger.Warn(fmt.Sprintf("result cache store failed for %s: %v", key, err))
	}

	return result, nil
}

// load returns the stored artifact for key, tracing the image when there is none.
func (g *Generator) load(
	ctx context.Context,
	span ports.Span,
	key domain.CacheKey,
	req domain.GenerationRequest,
) (string, error) {
	name := displayName(req.ImagePath)

	exists, err := g.store.Exists(key)
	if err != nil {
		return "", err
	}

	if exists {
		span.SetAttribute("sqip.cache", "artifact")
		g.logger.Debug(fmt.Sprintf("primitive result file already exists for %s (%s)", name, key))
		return g.store.Read(key)
	}

	span.SetAttribute("sqip.cache", "miss")
	return g.trace(ctx, key, req)
}

// trace runs the tracer and persists its markup.
func (g *Generator) trace(ctx context.Context, key domain.CacheKey, req domain.GenerationRequest) (string, error) {
	name := displayName(req.ImagePath)
	g.logger.Debug(fmt.Sprintf("generate primitive result file of %s (%s)", name, key))

	markup, err := g.tracer.Trace(ctx, req.ImagePath, req.Options)
	if err != nil {
		err = zerr.With(domain.WithCause(domain.ErrGenerationFailed, err), "image", req.ImagePath)
		return "", zerr.With(err, "key", key.String())
	}

	if err := g.store.Write(key, markup); err != nil {
		return "", err
	}
	g.logger.Debug(fmt.Sprintf("wrote primitive result file to disk for %s (%s)", name, key))

	return markup, nil
}

func displayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Package app implements the application layer for sqip.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/dustin/go-humanize"
	"go.trai.ch/sqip/internal/adapters/cas"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/sqip/internal/engine/generator"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	generator *generator.Generator
	resolver  ports.ImageResolver
	watcher   ports.Watcher
	logger    ports.Logger
	cacheDir  string
	defaults  domain.Options
	closers   []func(context.Context) error

	mu         sync.Mutex
	generators map[string]*generator.Generator
}

// New creates a new App instance.
func New(
	gen *generator.Generator,
	resolver ports.ImageResolver,
	log ports.Logger,
	cfg *domain.Config,
) *App {
	return &App{
		generator:  gen,
		resolver:   resolver,
		logger:     log,
		cacheDir:   cfg.CacheDir,
		defaults:   cfg.Defaults,
		generators: make(map[string]*generator.Generator),
	}
}

// WithClosers registers functions run by Close, in order.
func (a *App) WithClosers(closers ...func(context.Context) error) *App {
	a.closers = append(a.closers, closers...)
	return a
}

// WithWatcher sets the watcher used by Watch.
func (a *App) WithWatcher(w ports.Watcher) *App {
	a.watcher = w
	return a
}

// GenerateInput describes one preview request as received from a caller.
type GenerateInput struct {
	// AbsolutePath is the image to trace.
	AbsolutePath string
	// NumberOfPrimitives falls back to the configured default when zero.
	NumberOfPrimitives int
	// Blur falls back to the configured default when nil.
	Blur *float64
	// Mode is a mode name or number and falls back to the configured default when empty.
	Mode string
	// CacheDir overrides the configured artifact directory when set.
	CacheDir string
	// ContentDigest identifies the image content. It is computed from the file when empty.
	ContentDigest string
}

// GenerateOutput pairs an input image with its preview or failure.
type GenerateOutput struct {
	Path   string
	Result domain.PreviewResult
	Err    error
}

// Defaults returns the configured generation options.
func (a *App) Defaults() domain.Options {
	return a.defaults
}

// Generate returns the preview for one image. It is safe for concurrent use.
func (a *App) Generate(ctx context.Context, in GenerateInput) (domain.PreviewResult, error) {
	req, err := a.request(in)
	if err != nil {
		return domain.PreviewResult{}, err
	}
	return a.generatorFor(in.CacheDir).Generate(ctx, req)
}

// GenerateAll generates previews for every input. Digests are computed concurrently
// while tracing stays serialized by the queue. Outputs keep the order of inputs and
// the returned error joins every failure.
func (a *App) GenerateAll(ctx context.Context, inputs []GenerateInput) ([]GenerateOutput, error) {
	outputs := make([]GenerateOutput, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, in := range inputs {
		g.Go(func() error {
			result, err := a.Generate(ctx, in)
			if err != nil {
				err = zerr.With(err, "image", in.AbsolutePath)
			}
			outputs[i] = GenerateOutput{Path: in.AbsolutePath, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	var errs error
	for _, out := range outputs {
		errs = errors.Join(errs, out.Err)
	}
	return outputs, errs
}

// ResolveImages expands patterns relative to the working directory into image paths.
func (a *App) ResolveImages(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, domain.ErrNoImagesSpecified
	}
	return a.resolver.ResolveImages(patterns, ".")
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// CacheDir overrides the configured artifact directory when set.
	CacheDir string
}

// Clean removes the artifact directory, including on-disk result cache entries,
// and returns the number of bytes freed.
func (a *App) Clean(_ context.Context, options CleanOptions) (int64, error) {
	dir := a.resolveDir(options.CacheDir)

	a.logger.Info(fmt.Sprintf("removing preview cache %s...", dir))
	freed, err := cas.NewStore(dir).Clean()
	if err != nil {
		return 0, err
	}
	a.logger.Info(fmt.Sprintf("removed preview cache (%s freed)", humanize.Bytes(uint64(freed)))) //nolint:gosec // Sizes are never negative

	return freed, nil
}

// Close releases the queue, caches and telemetry.
func (a *App) Close(ctx context.Context) error {
	var errs error
	for _, closeFn := range a.closers {
		errs = errors.Join(errs, closeFn(ctx))
	}
	return errs
}

func (a *App) request(in GenerateInput) (domain.GenerationRequest, error) {
	opts := a.defaults
	if in.NumberOfPrimitives != 0 {
		opts.NumberOfPrimitives = in.NumberOfPrimitives
	}
	if in.Blur != nil {
		opts.Blur = *in.Blur
	}
	if in.Mode != "" {
		mode, err := domain.ParseMode(in.Mode)
		if err != nil {
			return domain.GenerationRequest{}, err
		}
		opts.Mode = mode
	}

	path := in.AbsolutePath
	if path != "" && !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return domain.GenerationRequest{}, zerr.With(zerr.Wrap(err, "failed to resolve image path"), "path", path)
		}
		path = abs
	}

	return domain.GenerationRequest{
		ImagePath:     path,
		ContentDigest: in.ContentDigest,
		Options:       opts,
	}, nil
}

func (a *App) resolveDir(dir string) string {
	if dir == "" {
		return a.cacheDir
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// generatorFor returns the generator persisting artifacts in dir. All of them share
// one queue.
func (a *App) generatorFor(dir string) *generator.Generator {
	dir = a.resolveDir(dir)
	if dir == a.cacheDir {
		return a.generator
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	gen, ok := a.generators[dir]
	if !ok {
		gen = a.generator.WithStore(cas.NewStore(dir))
		a.generators[dir] = gen
	}
	return gen
}

package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/sqip/internal/adapters/watcher" //nolint:depguard // Debouncing is shared with the adapter
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/zerr"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	// Root is the directory to watch. Defaults to the working directory.
	Root string
	// Template supplies the options of every generated preview. Its AbsolutePath
	// and ContentDigest are ignored.
	Template GenerateInput
	// Debounce is the quiet period before changed images are regenerated.
	Debounce time.Duration
}

// Watch generates previews for every image below Root, then regenerates the
// preview of each image that is created or modified until ctx is cancelled.
// Every output is passed to report, which is never called concurrently.
func (a *App) Watch(ctx context.Context, opts WatchOptions, report func(GenerateOutput)) error {
	if a.watcher == nil {
		return zerr.Wrap(domain.ErrWatchFailed, "no watcher configured")
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve watch root"), "root", opts.Root)
	}

	window := opts.Debounce
	if window <= 0 {
		window = watcher.DefaultDebounceWindow
	}

	if err := a.watcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Warn("failed to stop watcher: " + err.Error())
		}
	}()

	images, err := a.resolver.ResolveImages([]string{root}, root)
	if err != nil {
		return err
	}
	a.regenerate(ctx, images, opts.Template, report)

	a.logger.Info(fmt.Sprintf("watching %s for image changes", root))

	var bursts sync.Mutex
	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		bursts.Lock()
		defer bursts.Unlock()
		a.regenerate(ctx, paths, opts.Template, report)
	})
	defer debouncer.Stop()

	for event := range a.watcher.Events() {
		switch event.Operation {
		case ports.OpCreate, ports.OpWrite:
			debouncer.Add(event.Path)
		case ports.OpRemove, ports.OpRename:
			a.logger.Debug("image removed: " + event.Path)
		}
	}

	return nil
}

// regenerate runs paths through GenerateAll and reports each output. Nothing is
// reported once ctx is cancelled.
func (a *App) regenerate(ctx context.Context, paths []string, template GenerateInput, report func(GenerateOutput)) {
	if len(paths) == 0 {
		return
	}

	inputs := make([]GenerateInput, len(paths))
	for i, path := range paths {
		in := template
		in.AbsolutePath = path
		in.ContentDigest = ""
		inputs[i] = in
	}

	outputs, _ := a.GenerateAll(ctx, inputs)
	if ctx.Err() != nil {
		return
	}
	for _, out := range outputs {
		report(out)
	}
}

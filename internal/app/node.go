package app

import (
	"context"
	"io"

	"github.com/grindlemire/graft"
	"go.trai.ch/sqip/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/sqip/internal/adapters/fs"          //nolint:depguard // Wired in app layer
	"go.trai.ch/sqip/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/sqip/internal/adapters/resultcache" //nolint:depguard // Wired in app layer
	"go.trai.ch/sqip/internal/adapters/telemetry"   //nolint:depguard // Wired in app layer
	"go.trai.ch/sqip/internal/adapters/watcher"     //nolint:depguard // Wired in app layer
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/sqip/internal/engine/generator"
	"go.trai.ch/sqip/internal/engine/queue"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles what the command line needs from the graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

type statsReporter interface {
	Stats() resultcache.Stats
}

// cacheStatsLogger returns a closer logging the effectiveness of cache, or nil
// when the backend keeps no counters.
func cacheStatsLogger(log ports.Logger, cache ports.ResultCache) func(context.Context) error {
	r, ok := cache.(statsReporter)
	if !ok {
		return nil
	}
	return func(context.Context) error {
		log.Debug("result cache: " + r.Stats().String())
		return nil
	}
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			generator.NodeID,
			fs.ResolverNodeID,
			logger.NodeID,
			queue.NodeID,
			resultcache.NodeID,
			telemetry.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	gen, err := graft.Dep[*generator.Generator](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.ImageResolver](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	q, err := graft.Dep[*queue.Queue](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[ports.ResultCache](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	closers := []func(context.Context) error{
		func(context.Context) error {
			q.Close()
			return nil
		},
	}
	if report := cacheStatsLogger(log, cache); report != nil {
		closers = append(closers, report)
	}
	if c, ok := cache.(io.Closer); ok {
		closers = append(closers, func(context.Context) error { return c.Close() })
	}
	if s, ok := tel.(shutdowner); ok {
		closers = append(closers, s.Shutdown)
	}

	return New(gen, resolver, log, cfg).WithWatcher(w).WithClosers(closers...), nil
}

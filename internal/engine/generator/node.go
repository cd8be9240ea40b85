package generator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sqip/internal/adapters/cas"         //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sqip/internal/adapters/config"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sqip/internal/adapters/fs"          //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sqip/internal/adapters/logger"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sqip/internal/adapters/primitive"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sqip/internal/adapters/resultcache" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sqip/internal/adapters/svg"         //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sqip/internal/adapters/telemetry"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/sqip/internal/engine/queue"
)

// NodeID is the unique identifier for the generator Graft node.
const NodeID graft.ID = "engine.generator"

func init() {
	graft.Register(graft.Node[*Generator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			fs.HasherNodeID,
			resultcache.NodeID,
			cas.NodeID,
			primitive.NodeID,
			svg.NodeID,
			queue.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Generator, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			cache, err := graft.Dep[ports.ResultCache](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.ArtifactStore](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			encoder, err := graft.Dep[ports.Encoder](ctx)
			if err != nil {
				return nil, err
			}

			q, err := graft.Dep[*queue.Queue](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(
				hasher,
				cache,
				store,
				tracer,
				encoder,
				q,
				log,
				tel,
				WithPolicy(cfg.Policy),
				WithCoalescing(cfg.Coalesce),
			), nil
		},
	})
}

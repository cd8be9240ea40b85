package primitive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sqip/internal/adapters/config"
	"go.trai.ch/sqip/internal/adapters/logger"
	"go.trai.ch/sqip/internal/adapters/telemetry"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
)

// NodeID is the unique identifier for the tracer Graft node.
const NodeID graft.ID = "adapter.tracer"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, logger.NodeID, telemetry.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
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
			return NewTracer(cfg.Tracer.Binary, cfg.Tracer.Timeout, log, tel), nil
		},
	})
}

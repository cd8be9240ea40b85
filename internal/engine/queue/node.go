package queue

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sqip/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sqip/internal/core/domain"
)

// NodeID is the unique identifier for the generation queue Graft node.
const NodeID graft.ID = "engine.queue"

func init() {
	graft.Register(graft.Node[*Queue]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (*Queue, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(WithTaskTimeout(cfg.Queue.TaskTimeout)), nil
		},
	})
}

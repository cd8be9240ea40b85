package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sqip/internal/adapters/logger"
	"go.trai.ch/sqip/internal/core/ports"
)

// NodeID is the unique identifier for the Telemetry adapter Graft node.
const NodeID graft.ID = "adapter.telemetry"

// InstrumentationName names the tracer that produces sqip spans.
const InstrumentationName = "go.trai.ch/sqip"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewOTelTelemetry(InstrumentationName, NewBridge(log)), nil
		},
	})
}

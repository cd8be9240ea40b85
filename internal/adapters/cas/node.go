package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sqip/internal/adapters/config"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
)

// NodeID is the unique identifier for the artifact store Graft node.
const NodeID graft.ID = "adapter.artifact_store"

// StoreNodeID is the unique identifier for the concrete store Graft node.
const StoreNodeID graft.ID = "adapter.artifact_store.concrete"

func init() {
	graft.Register(graft.Node[*Store]{
		ID:        StoreNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (*Store, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(cfg.CacheDir), nil
		},
	})

	graft.Register(graft.Node[ports.ArtifactStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{StoreNodeID},
		Run: func(ctx context.Context) (ports.ArtifactStore, error) {
			return graft.Dep[*Store](ctx)
		},
	})
}

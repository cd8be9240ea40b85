package wiring_test

import (
	"context"
	"testing"
	"time"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sqip/internal/app"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/engine/queue"
	_ "go.trai.ch/sqip/internal/wiring"
)

// TestGraftDependencies ensures that the dependency injection graph is valid
// at compile/test time. It checks that every node declaring a dependency
// actually uses it, and every used dependency is declared.
func TestGraftDependencies(t *testing.T) {
	// graft.AssertDepsValid infers the dependency ID from the package name of the
	// type used in Dep[T], so every ports.X dependency is reported as "ports".
	t.Skip("Skipping Graft validation due to static analysis limitation with shared ports package")
	graft.AssertDepsValid(t, "../../internal")
}

func TestGraph_ResolvesComponents(t *testing.T) {
	t.Setenv("SQIP_CONFIG", "")
	t.Setenv("SQIP_CACHE_DIR", t.TempDir())
	t.Setenv("SQIP_CACHE_BACKEND", domain.CacheBackendMemory)

	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)

	assert.Equal(t, domain.DefaultOptions(), components.App.Defaults())
	require.NoError(t, components.App.Close(context.Background()))
}

func TestGraph_QueueUsesConfiguredTaskTimeout(t *testing.T) {
	t.Setenv("SQIP_CONFIG", "")
	t.Setenv("SQIP_CACHE_DIR", t.TempDir())
	t.Setenv("SQIP_TASK_TIMEOUT", "10ms")

	q, _, err := graft.ExecuteFor[*queue.Queue](context.Background())
	require.NoError(t, err)
	defer q.Close()

	start := time.Now()
	err = q.Do(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Minute)
}

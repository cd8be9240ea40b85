package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/engine/queue"
	"go.trai.ch/zerr"
)

// block submits a task that holds the worker until release is closed.
func block(t *testing.T, q *queue.Queue, release <-chan struct{}) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() {
		errCh <- q.Do(context.Background(), func(context.Context) error {
			<-release
			return nil
		})
	}()
	synctest.Wait()
	return errCh
}

func TestQueue_FIFOAndSerialized(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New()
		defer q.Close()

		release := make(chan struct{})
		blocked := block(t, q, release)

		var (
			order   []int
			running atomic.Int32
			maxSeen atomic.Int32
			wg      sync.WaitGroup
		)
		for i := range 5 {
			wg.Go(func() {
				err := q.Do(context.Background(), func(context.Context) error {
					n := running.Add(1)
					if n > maxSeen.Load() {
						maxSeen.Store(n)
					}
					time.Sleep(10 * time.Millisecond)
					order = append(order, i)
					running.Add(-1)
					return nil
				})
				assert.NoError(t, err)
			})
			synctest.Wait()
		}

		assert.Equal(t, 5, q.Pending())
		close(release)
		wg.Wait()

		require.NoError(t, <-blocked)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
		assert.Equal(t, int32(1), maxSeen.Load())
		assert.Equal(t, 0, q.Pending())
	})
}

func TestQueue_FaultIsolation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New()
		defer q.Close()

		errBoom := errors.New("boom")

		err := q.Do(context.Background(), func(context.Context) error { return errBoom })
		require.ErrorIs(t, err, errBoom)

		err = q.Do(context.Background(), func(context.Context) error { panic("tracer exploded") })
		require.ErrorIs(t, err, domain.ErrTaskPanicked)
		assert.ErrorContains(t, err, "tracer exploded")
		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, "tracer exploded", zErr.Metadata()["panic"])

		ran := false
		err = q.Do(context.Background(), func(context.Context) error {
			ran = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, ran)
	})
}

func TestQueue_CancelWhileWaiting(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New()
		defer q.Close()

		release := make(chan struct{})
		blocked := block(t, q, release)

		ctx, cancel := context.WithCancel(context.Background())
		var ran atomic.Bool
		errCh := make(chan error, 1)
		go func() {
			errCh <- q.Do(ctx, func(context.Context) error {
				ran.Store(true)
				return nil
			})
		}()
		synctest.Wait()
		assert.Equal(t, 1, q.Pending())

		cancel()
		require.ErrorIs(t, <-errCh, context.Canceled)
		assert.Equal(t, 0, q.Pending())

		close(release)
		require.NoError(t, <-blocked)

		require.NoError(t, q.Do(context.Background(), func(context.Context) error { return nil }))
		assert.False(t, ran.Load())
	})
}

func TestQueue_CancelledBeforeSubmit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New()
		defer q.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := q.Do(ctx, func(context.Context) error {
			t.Error("task must not run")
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestQueue_CancelWhileRunningWaitsForTask(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New()
		defer q.Close()

		ctx, cancel := context.WithCancel(context.Background())
		started := make(chan struct{})
		errCh := make(chan error, 1)
		go func() {
			errCh <- q.Do(ctx, func(ctx context.Context) error {
				close(started)
				<-ctx.Done()
				time.Sleep(time.Second)
				return errCleanup
			})
		}()

		<-started
		cancel()
		require.ErrorIs(t, <-errCh, errCleanup)
	})
}

var errCleanup = errors.New("cleaned up")

func TestQueue_TaskTimeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New(queue.WithTaskTimeout(time.Minute))
		defer q.Close()

		start := time.Now()
		err := q.Do(context.Background(), func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, time.Minute, time.Since(start))
	})
}

func TestQueue_CloseDrainsThenRejects(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New()

		release := make(chan struct{})
		blocked := block(t, q, release)

		var done atomic.Int32
		var wg sync.WaitGroup
		for range 2 {
			wg.Go(func() {
				assert.NoError(t, q.Do(context.Background(), func(context.Context) error {
					done.Add(1)
					return nil
				}))
			})
		}
		synctest.Wait()

		closed := make(chan struct{})
		go func() {
			q.Close()
			close(closed)
		}()
		synctest.Wait()

		err := q.Do(context.Background(), func(context.Context) error { return nil })
		require.ErrorIs(t, err, domain.ErrQueueClosed)

		close(release)
		wg.Wait()
		<-closed

		require.NoError(t, <-blocked)
		assert.Equal(t, int32(2), done.Load())

		q.Close()
	})
}

func TestQueue_NestedDoRunsInline(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New()
		defer q.Close()

		var steps []string
		err := q.Do(context.Background(), func(ctx context.Context) error {
			steps = append(steps, "outer")
			return q.Do(ctx, func(context.Context) error {
				steps = append(steps, "inner")
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"outer", "inner"}, steps)
	})
}

func TestRun(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New()
		defer q.Close()

		got, err := queue.Run(context.Background(), q, func(context.Context) (string, error) {
			return "<svg/>", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "<svg/>", got)

		_, err = queue.Run(context.Background(), q, func(context.Context) (int, error) {
			return 0, domain.ErrGenerationFailed
		})
		require.ErrorIs(t, err, domain.ErrGenerationFailed)
	})
}

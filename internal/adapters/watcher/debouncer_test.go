package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sqip/internal/adapters/watcher"
)

// recorder collects debouncer deliveries.
type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) record(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, paths)
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func TestDebouncer_DeliversAfterQuietPeriod(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/images/b.png")
		d.Add("/images/a.png")
		d.Add("/images/b.png")

		time.Sleep(99 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, rec.snapshot())

		time.Sleep(2 * time.Millisecond)
		synctest.Wait()

		calls := rec.snapshot()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/images/a.png", "/images/b.png"}, calls[0])
	})
}

func TestDebouncer_AddRestartsWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/images/a.png")
		time.Sleep(60 * time.Millisecond)
		d.Add("/images/b.png")
		time.Sleep(60 * time.Millisecond)

		synctest.Wait()
		assert.Empty(t, rec.snapshot())

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		calls := rec.snapshot()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/images/a.png", "/images/b.png"}, calls[0])
	})
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(50*time.Millisecond, rec.record)

		d.Add("/images/a.png")
		time.Sleep(100 * time.Millisecond)
		d.Add("/images/a.png")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/images/a.png"}, {"/images/a.png"}}, rec.snapshot())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/images/a.png")
		d.Flush()

		assert.Equal(t, [][]string{{"/images/a.png"}}, rec.snapshot())

		time.Sleep(200 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, rec.snapshot(), 1, "flushed paths must not be delivered again")
	})
}

func TestDebouncer_FlushEmpty(t *testing.T) {
	rec := &recorder{}
	d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

	d.Flush()

	assert.Empty(t, rec.snapshot())
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/images/a.png")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Add("/images/b.png")
		d.Flush()
	})
}

func TestDebouncer_StopDiscardsPending(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/images/a.png")
		d.Stop()
		d.Add("/images/b.png")

		time.Sleep(200 * time.Millisecond)
		synctest.Wait()

		assert.Empty(t, rec.snapshot())
	})
}

func TestDebouncer_StopWaitsForDelivery(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		release := make(chan struct{})
		var finished bool
		d := watcher.NewDebouncer(10*time.Millisecond, func([]string) {
			<-release
			finished = true
		})

		d.Add("/images/a.png")
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()

		stopped := make(chan struct{})
		go func() {
			d.Stop()
			close(stopped)
		}()

		synctest.Wait()
		select {
		case <-stopped:
			t.Fatal("Stop returned while a delivery was running")
		default:
		}

		close(release)
		<-stopped
		assert.True(t, finished)
	})
}

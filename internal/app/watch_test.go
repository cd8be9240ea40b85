package app_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sqip/internal/app"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/sqip/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func channelEvents(events <-chan ports.WatchEvent) iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}
}

func receive(t *testing.T, ch <-chan app.GenerateOutput) app.GenerateOutput {
	t.Helper()
	select {
	case out := <-ch:
		return out
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a preview")
		return app.GenerateOutput{}
	}
}

func TestApp_Watch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	root := t.TempDir()
	existing := filepath.Join(root, "existing.png")
	changed := filepath.Join(root, "changed.png")
	require.NoError(t, os.WriteFile(existing, []byte("a"), domain.PrivateFilePerm))
	require.NoError(t, os.WriteFile(changed, []byte("b"), domain.PrivateFilePerm))

	events := make(chan ports.WatchEvent)
	w := mocks.NewMockWatcher(gomock.NewController(t))
	w.EXPECT().Start(gomock.Any(), root).Return(nil)
	w.EXPECT().Events().Return(channelEvents(events))
	w.EXPECT().Stop().Return(nil)

	f.resolver.EXPECT().ResolveImages([]string{root}, root).Return([]string{existing}, nil)
	f.tracer.EXPECT().Trace(gomock.Any(), existing, f.cfg.Defaults).Return("<svg>existing</svg>", nil)
	f.tracer.EXPECT().Trace(gomock.Any(), changed, f.cfg.Defaults).Return("<svg>changed</svg>", nil)

	reported := make(chan app.GenerateOutput, 4)
	done := make(chan error, 1)
	go func() {
		done <- f.app.WithWatcher(w).Watch(context.Background(), app.WatchOptions{
			Root:     root,
			Debounce: 50 * time.Millisecond,
		}, func(out app.GenerateOutput) {
			reported <- out
		})
	}()

	first := receive(t, reported)
	require.NoError(t, first.Err)
	assert.Equal(t, existing, first.Path)
	assert.Equal(t, "<svg>existing</svg>", first.Result.SVG)

	events <- ports.WatchEvent{Path: changed, Operation: ports.OpCreate}
	events <- ports.WatchEvent{Path: changed, Operation: ports.OpWrite}
	events <- ports.WatchEvent{Path: existing, Operation: ports.OpRemove}

	second := receive(t, reported)
	require.NoError(t, second.Err)
	assert.Equal(t, changed, second.Path)
	assert.Equal(t, "<svg>changed</svg>", second.Result.SVG)

	close(events)
	require.NoError(t, <-done)
}

func TestApp_Watch_NoWatcher(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	err := f.app.Watch(context.Background(), app.WatchOptions{}, func(app.GenerateOutput) {})
	require.ErrorIs(t, err, domain.ErrWatchFailed)
}

func TestApp_Watch_StartFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	root := t.TempDir()

	w := mocks.NewMockWatcher(gomock.NewController(t))
	w.EXPECT().Start(gomock.Any(), root).Return(errors.New("too many open files"))

	err := f.app.WithWatcher(w).Watch(context.Background(), app.WatchOptions{Root: root}, func(app.GenerateOutput) {
		t.Error("nothing should be reported")
	})
	assert.EqualError(t, err, "too many open files")
}

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sqip/internal/app"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newComponents(t *testing.T) (*app.Components, *mocks.MockImageResolver, *mocks.MockLogger) {
	t.Helper()

	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockImageResolver(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	cfg := domain.DefaultConfig()
	cfg.CacheDir = t.TempDir()

	return &app.Components{
		App:    app.New(nil, resolver, logger, cfg),
		Logger: logger,
	}, resolver, logger
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	components, _, _ := newComponents(t)

	cleaned := false
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() { cleaned = true }, nil
	}

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, io.Discard, provider)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "sqip version")
	assert.True(t, cleaned)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, io.Discard, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	components, resolver, logger := newComponents(t)

	resolver.EXPECT().ResolveImages([]string{"missing.png"}, ".").Return(nil, domain.ErrImageNotFound)
	logger.EXPECT().Error(gomock.Any()).Times(1)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"generate", "missing.png"}, io.Discard, io.Discard, provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_Clean verifies that clean runs against the configured cache directory.
func TestRun_Clean(t *testing.T) {
	components, _, logger := newComponents(t)
	logger.EXPECT().Info(gomock.Any()).Times(2)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"clean"}, io.Discard, io.Discard, provider)
	assert.Equal(t, 0, exitCode)
}

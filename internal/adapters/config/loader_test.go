package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sqip/internal/adapters/config"
	"go.trai.ch/sqip/internal/core/domain"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
	return path
}

func newLoader(environ map[string]string) *config.Loader {
	l := config.NewLoader()
	if environ == nil {
		environ = map[string]string{}
	}
	l.Environ = environ
	return l
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := newLoader(nil).Load(dir)
	require.NoError(t, err)

	want := domain.DefaultConfig()
	want.CacheDir = filepath.Join(dir, domain.DefaultCachePath())
	assert.Equal(t, want, cfg)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, domain.ConfigFileName, `
version: "1"
cache_dir: previews
defaults:
  primitives: 24
  blur: 0
  mode: rotatedrect
cache:
  backend: redis
  memory_entries: 64
  compression_level: 7
  redis:
    addr: localhost:6379
    password: secret
    db: 2
    ttl: 1h
tracer:
  binary: /opt/bin/primitive
  timeout: 30s
queue:
  task_timeout: 5m
policy: regenerate-on-hit
coalesce: true
log:
  level: debug
  json: true
`)

	cfg, err := newLoader(nil).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, &domain.Config{
		CacheDir: filepath.Join(dir, "previews"),
		Defaults: domain.Options{NumberOfPrimitives: 24, Blur: 0, Mode: domain.ModeRotatedRect},
		Cache: domain.CacheConfig{
			Backend:          domain.CacheBackendRedis,
			MemoryEntries:    64,
			CompressionLevel: 7,
			Redis: domain.RedisConfig{
				Addr:     "localhost:6379",
				Password: "secret",
				DB:       2,
				TTL:      time.Hour,
			},
		},
		Tracer:   domain.TracerConfig{Binary: "/opt/bin/primitive", Timeout: 30 * time.Second},
		Queue:    domain.QueueConfig{TaskTimeout: 5 * time.Minute},
		Policy:   domain.PolicyRegenerateOnHit,
		Coalesce: true,
		Log:      domain.LogConfig{Level: "debug", JSON: true},
	}, cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, domain.ConfigFileName, "defaults:\n  primitives: 3\n")

	cfg, err := newLoader(nil).Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Defaults.NumberOfPrimitives)
	assert.InDelta(t, domain.DefaultBlur, cfg.Defaults.Blur, 0)
	assert.Equal(t, domain.ModeCombo, cfg.Defaults.Mode)
	assert.Equal(t, domain.CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, domain.PolicyReturnCached, cfg.Policy)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, domain.ConfigFileName, `
cache:
  backend: disk
defaults:
  primitives: 5
`)

	absCache := filepath.Join(t.TempDir(), "elsewhere")
	cfg, err := newLoader(map[string]string{
		"SQIP_CACHE_DIR":      absCache,
		"SQIP_CACHE_BACKEND":  "redis",
		"SQIP_REDIS_ADDR":     "redis:6379",
		"SQIP_REDIS_TTL":      "10m",
		"SQIP_PRIMITIVE_BIN":  "primitive-dev",
		"SQIP_MODE":           "circle",
		"SQIP_BLUR":           "4.5",
		"SQIP_POLICY":         "regenerate-on-hit",
		"SQIP_COALESCE":       "true",
		"SQIP_LOG_LEVEL":      "warn",
		"SQIP_TRACER_TIMEOUT": "2s",
		"SQIP_TASK_TIMEOUT":   "90s",
	}).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, absCache, cfg.CacheDir)
	assert.Equal(t, domain.CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Cache.Redis.TTL)
	assert.Equal(t, "primitive-dev", cfg.Tracer.Binary)
	assert.Equal(t, 2*time.Second, cfg.Tracer.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Queue.TaskTimeout)
	assert.Equal(t, 5, cfg.Defaults.NumberOfPrimitives)
	assert.Equal(t, domain.ModeCircle, cfg.Defaults.Mode)
	assert.InDelta(t, 4.5, cfg.Defaults.Blur, 0)
	assert.Equal(t, domain.PolicyRegenerateOnHit, cfg.Policy)
	assert.True(t, cfg.Coalesce)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "custom.yaml", "defaults:\n  primitives: 42\n")

	cfg, err := newLoader(map[string]string{config.ConfigEnv: "custom.yaml"}).Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Defaults.NumberOfPrimitives)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		environ map[string]string
		wantErr error
	}{
		{
			name:    "malformed yaml",
			content: "defaults: [",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "unsupported version",
			content: "version: \"2\"\n",
			wantErr: domain.ErrUnsupportedConfigVersion,
		},
		{
			name:    "unknown mode",
			content: "defaults:\n  mode: hexagon\n",
			wantErr: domain.ErrInvalidMode,
		},
		{
			name:    "unknown policy",
			content: "policy: sometimes\n",
			wantErr: domain.ErrInvalidCachePolicy,
		},
		{
			name:    "invalid primitives",
			content: "defaults:\n  primitives: 0\n",
			wantErr: domain.ErrInvalidOptions,
		},
		{
			name:    "infinite blur",
			content: "defaults:\n  blur: .inf\n",
			wantErr: domain.ErrInvalidOptions,
		},
		{
			name:    "malformed environment",
			environ: map[string]string{"SQIP_PRIMITIVES": "many"},
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "missing explicit file",
			environ: map[string]string{config.ConfigEnv: "missing.yaml"},
			wantErr: domain.ErrConfigReadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tt.content != "" {
				writeConfig(t, dir, domain.ConfigFileName, tt.content)
			}

			_, err := newLoader(tt.environ).Load(dir)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/sqip/internal/core/domain"
)

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "SQIP_"

// ConfigEnv names the variable that points at an explicit configuration file.
const ConfigEnv = EnvPrefix + "CONFIG"

// environment mirrors the overridable settings. It is seeded from the current
// configuration so unset variables keep their value.
type environment struct {
	CacheDir         string        `env:"CACHE_DIR"`
	Primitives       int           `env:"PRIMITIVES"`
	Blur             float64       `env:"BLUR"`
	Mode             domain.Mode   `env:"MODE"`
	CacheBackend     string        `env:"CACHE_BACKEND"`
	MemoryEntries    int           `env:"MEMORY_ENTRIES"`
	CompressionLevel int           `env:"COMPRESSION_LEVEL"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB"`
	RedisTTL         time.Duration `env:"REDIS_TTL"`
	TracerBinary     string        `env:"PRIMITIVE_BIN"`
	TracerTimeout    time.Duration `env:"TRACER_TIMEOUT"`
	TaskTimeout      time.Duration `env:"TASK_TIMEOUT"`
	Policy           string        `env:"POLICY"`
	Coalesce         bool          `env:"COALESCE"`
	LogLevel         string        `env:"LOG_LEVEL"`
	LogJSON          bool          `env:"LOG_JSON"`
}

func applyEnvironment(cfg *domain.Config, environ map[string]string) error {
	e := environment{
		CacheDir:         cfg.CacheDir,
		Primitives:       cfg.Defaults.NumberOfPrimitives,
		Blur:             cfg.Defaults.Blur,
		Mode:             cfg.Defaults.Mode,
		CacheBackend:     cfg.Cache.Backend,
		MemoryEntries:    cfg.Cache.MemoryEntries,
		CompressionLevel: cfg.Cache.CompressionLevel,
		RedisAddr:        cfg.Cache.Redis.Addr,
		RedisPassword:    cfg.Cache.Redis.Password,
		RedisDB:          cfg.Cache.Redis.DB,
		RedisTTL:         cfg.Cache.Redis.TTL,
		TracerBinary:     cfg.Tracer.Binary,
		TracerTimeout:    cfg.Tracer.Timeout,
		TaskTimeout:      cfg.Queue.TaskTimeout,
		Policy:           cfg.Policy.String(),
		Coalesce:         cfg.Coalesce,
		LogLevel:         cfg.Log.Level,
		LogJSON:          cfg.Log.JSON,
	}

	if err := env.ParseWithOptions(&e, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return domain.WithCause(domain.ErrConfigParseFailed, err)
	}

	policy, err := domain.ParseCachePolicy(e.Policy)
	if err != nil {
		return err
	}

	cfg.CacheDir = e.CacheDir
	cfg.Defaults = domain.Options{
		NumberOfPrimitives: e.Primitives,
		Blur:               e.Blur,
		Mode:               e.Mode,
	}
	cfg.Cache = domain.CacheConfig{
		Backend:          e.CacheBackend,
		MemoryEntries:    e.MemoryEntries,
		CompressionLevel: e.CompressionLevel,
		Redis: domain.RedisConfig{
			Addr:     e.RedisAddr,
			Password: e.RedisPassword,
			DB:       e.RedisDB,
			TTL:      e.RedisTTL,
		},
	}
	cfg.Tracer = domain.TracerConfig{
		Binary:  e.TracerBinary,
		Timeout: e.TracerTimeout,
	}
	cfg.Queue = domain.QueueConfig{TaskTimeout: e.TaskTimeout}
	cfg.Policy = policy
	cfg.Coalesce = e.Coalesce
	cfg.Log = domain.LogConfig{
		Level: e.LogLevel,
		JSON:  e.LogJSON,
	}
	return nil
}

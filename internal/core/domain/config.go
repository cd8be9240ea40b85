package domain

import "time"

// Cache backends understood by the result cache node.
const (
	CacheBackendMemory = "memory"
	CacheBackendDisk   = "disk"
	CacheBackendRedis  = "redis"
)

const (
	// DefaultMemoryEntries bounds the in-memory result cache.
	DefaultMemoryEntries = 512
	// DefaultCompressionLevel is the zstd level used by the disk result cache.
	DefaultCompressionLevel = 3
	// DefaultTracerBinary is the executable invoked to trace images.
	DefaultTracerBinary = "primitive"
)

// Config is the resolved runtime configuration.
type Config struct {
	CacheDir string
	Defaults Options
	Cache    CacheConfig
	Tracer   TracerConfig
	Queue    QueueConfig
	Policy   CachePolicy
	Coalesce bool
	Log      LogConfig
}

// CacheConfig selects and tunes the result cache backend.
type CacheConfig struct {
	Backend          string
	MemoryEntries    int
	CompressionLevel int
	Redis            RedisConfig
}

// RedisConfig holds the connection settings of the redis result cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// TracerConfig configures the external tracer process.
type TracerConfig struct {
	Binary  string
	Timeout time.Duration
}

// QueueConfig tunes the generation queue.
type QueueConfig struct {
	// TaskTimeout bounds one queued generation. Zero means no bound.
	TaskTimeout time.Duration
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string
	JSON  bool
}

// DefaultConfig returns the configuration used when no file or environment overrides exist.
func DefaultConfig() *Config {
	return &Config{
		CacheDir: DefaultCachePath(),
		Defaults: DefaultOptions(),
		Cache: CacheConfig{
			Backend:          CacheBackendMemory,
			MemoryEntries:    DefaultMemoryEntries,
			CompressionLevel: DefaultCompressionLevel,
		},
		Tracer: TracerConfig{
			Binary: DefaultTracerBinary,
		},
		Policy: PolicyReturnCached,
		Log: LogConfig{
			Level: "info",
		},
	}
}

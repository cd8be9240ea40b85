package config

import "time"

// SupportedVersion is the only sqip.yaml schema version understood by the loader.
const SupportedVersion = "1"

// Sqipfile represents the structure of the sqip.yaml configuration file.
// Pointer fields distinguish an omitted value from an explicit zero.
type Sqipfile struct {
	Version  string      `yaml:"version"`
	CacheDir string      `yaml:"cache_dir"`
	Defaults DefaultsDTO `yaml:"defaults"`
	Cache    CacheDTO    `yaml:"cache"`
	Tracer   TracerDTO   `yaml:"tracer"`
	Queue    QueueDTO    `yaml:"queue"`
	Policy   string      `yaml:"policy"`
	Coalesce *bool       `yaml:"coalesce"`
	Log      LogDTO      `yaml:"log"`
}

// DefaultsDTO holds the generation options applied when a request leaves them unset.
type DefaultsDTO struct {
	Primitives *int     `yaml:"primitives"`
	Blur       *float64 `yaml:"blur"`
	Mode       string   `yaml:"mode"`
}

// CacheDTO configures the result cache.
type CacheDTO struct {
	Backend          string   `yaml:"backend"`
	MemoryEntries    *int     `yaml:"memory_entries"`
	CompressionLevel *int     `yaml:"compression_level"`
	Redis            RedisDTO `yaml:"redis"`
}

// RedisDTO configures the redis result cache backend.
type RedisDTO struct {
	Addr     string         `yaml:"addr"`
	Password string         `yaml:"password"`
	DB       *int           `yaml:"db"`
	TTL      *time.Duration `yaml:"ttl"`
}

// TracerDTO configures the primitive process.
type TracerDTO struct {
	Binary  string         `yaml:"binary"`
	Timeout *time.Duration `yaml:"timeout"`
}

// QueueDTO configures the generation queue.
type QueueDTO struct {
	TaskTimeout *time.Duration `yaml:"task_timeout"`
}

// LogDTO configures logging.
type LogDTO struct {
	Level string `yaml:"level"`
	JSON  *bool  `yaml:"json"`
}

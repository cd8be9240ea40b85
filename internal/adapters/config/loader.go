// Package config loads the sqip runtime configuration from sqip.yaml and the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader.
type Loader struct {
	// Filename is the configuration file looked up in the working directory.
	Filename string
	// Environ replaces the process environment when non-nil.
	Environ map[string]string
}

// NewLoader creates a loader reading sqip.yaml and the process environment.
func NewLoader() *Loader {
	return &Loader{Filename: domain.ConfigFileName}
}

// Load builds the configuration for cwd. Defaults are overlaid by the file named by
// SQIP_CONFIG, or sqip.yaml in cwd when it exists, and then by SQIP_* variables.
// A relative cache directory is resolved against cwd.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	path, required := l.configPath(cwd)
	file, err := readFile(path, required)
	if err != nil {
		return nil, err
	}
	if file != nil {
		if err := applyFile(cfg, file); err != nil {
			return nil, zerr.With(err, "config_file", path)
		}
	}

	if err := applyEnvironment(cfg, l.Environ); err != nil {
		return nil, err
	}

	if err := cfg.Defaults.Validate(); err != nil {
		return nil, err
	}

	if cfg.CacheDir != "" && !filepath.IsAbs(cfg.CacheDir) {
		cfg.CacheDir = filepath.Join(cwd, cfg.CacheDir)
	}

	return cfg, nil
}

func (l *Loader) configPath(cwd string) (path string, required bool) {
	if explicit := l.lookupEnv(ConfigEnv); explicit != "" {
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(cwd, explicit)
		}
		return explicit, true
	}

	name := l.Filename
	if name == "" {
		name = domain.ConfigFileName
	}
	return filepath.Join(cwd, name), false
}

func (l *Loader) lookupEnv(key string) string {
	if l.Environ != nil {
		return l.Environ[key]
	}
	return os.Getenv(key)
}

// readFile reads and decodes a configuration file. A missing optional file yields nil.
func readFile(path string, required bool) (*Sqipfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(domain.WithCause(domain.ErrConfigReadFailed, err), "config_file", path)
	}

	var file Sqipfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(domain.WithCause(domain.ErrConfigParseFailed, err), "config_file", path)
	}

	if file.Version != "" && file.Version != SupportedVersion {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrUnsupportedConfigVersion, "cannot load "+path), "version", file.Version), "config_file", path)
	}

	return &file, nil
}

func applyFile(cfg *domain.Config, file *Sqipfile) error {
	if file.CacheDir != "" {
		cfg.CacheDir = file.CacheDir
	}

	if file.Defaults.Primitives != nil {
		cfg.Defaults.NumberOfPrimitives = *file.Defaults.Primitives
	}
	if file.Defaults.Blur != nil {
		cfg.Defaults.Blur = *file.Defaults.Blur
	}
	if file.Defaults.Mode != "" {
		mode, err := domain.ParseMode(file.Defaults.Mode)
		if err != nil {
			return err
		}
		cfg.Defaults.Mode = mode
	}

	if file.Cache.Backend != "" {
		cfg.Cache.Backend = file.Cache.Backend
	}
	if file.Cache.MemoryEntries != nil {
		cfg.Cache.MemoryEntries = *file.Cache.MemoryEntries
	}
	if file.Cache.CompressionLevel != nil {
		cfg.Cache.CompressionLevel = *file.Cache.CompressionLevel
	}
	if file.Cache.Redis.Addr != "" {
		cfg.Cache.Redis.Addr = file.Cache.Redis.Addr
	}
	if file.Cache.Redis.Password != "" {
		cfg.Cache.Redis.Password = file.Cache.Redis.Password
	}
	if file.Cache.Redis.DB != nil {
		cfg.Cache.Redis.DB = *file.Cache.Redis.DB
	}
	if file.Cache.Redis.TTL != nil {
		cfg.Cache.Redis.TTL = *file.Cache.Redis.TTL
	}

	if file.Tracer.Binary != "" {
		cfg.Tracer.Binary = file.Tracer.Binary
	}
	if file.Tracer.Timeout != nil {
		cfg.Tracer.Timeout = *file.Tracer.Timeout
	}

	if file.Queue.TaskTimeout != nil {
		cfg.Queue.TaskTimeout = *file.Queue.TaskTimeout
	}

	if file.Policy != "" {
		policy, err := domain.ParseCachePolicy(file.Policy)
		if err != nil {
			return err
		}
		cfg.Policy = policy
	}
	if file.Coalesce != nil {
		cfg.Coalesce = *file.Coalesce
	}

	if file.Log.Level != "" {
		cfg.Log.Level = file.Log.Level
	}
	if file.Log.JSON != nil {
		cfg.Log.JSON = *file.Log.JSON
	}

	return nil
}

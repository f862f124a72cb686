// Package config loads namehash tool settings.
//
// Configuration comes from a single YAML file named by the --config flag or
// the NAMEHASH_CONFIG environment variable. There is no automatic
// discovery; without either, defaults apply. Command-line flags that are
// explicitly set override file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "NAMEHASH_CONFIG"

// Config holds settings for batch hashing.
type Config struct {
	// Workers is the number of hashing goroutines.
	Workers int `yaml:"workers"`

	// CacheSize is the number of parent digests to remember.
	// Zero disables the cache.
	CacheSize int `yaml:"cache_size"`

	// Index is a pebble directory to record digest -> domain mappings in.
	// Empty disables indexing.
	Index string `yaml:"index"`

	Log LogConfig `yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

var (
	ErrNegativeWorkers   = errors.New("workers must not be negative")
	ErrNegativeCacheSize = errors.New("cache_size must not be negative")
	ErrUnknownLogLevel   = errors.New("unknown log level")
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Workers:   runtime.GOMAXPROCS(0),
		CacheSize: 4096,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Resolve loads the file named by path, or by EnvVar when path is empty.
// With neither set it returns Default().
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Load reads a config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return ErrNegativeWorkers
	}
	if c.CacheSize < 0 {
		return ErrNegativeCacheSize
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, c.Log.Level)
	}
	return nil
}

// Package config loads the YAML configuration that selects and parameterises
// a storage backend.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eigerco/levelbind/pkg/log"
)

type Backend string

const (
	BackendMemory    Backend = "memory"
	BackendPebble    Backend = "pebble"
	BackendGoLevelDB Backend = "goleveldb"
	BackendNative    Backend = "native"
)

type Config struct {
	Backend Backend `yaml:"backend"`
	// DataDir is the base directory database names are resolved against.
	DataDir         string `yaml:"data_dir"`
	CreateIfMissing bool   `yaml:"create_if_missing"`
	ErrorIfExists   bool   `yaml:"error_if_exists"`
	// NativeLibrary is an explicit path to libleveldb; empty searches the
	// default library names.
	NativeLibrary string `yaml:"native_library"`
	Log           Log    `yaml:"log"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Backend:         BackendMemory,
		DataDir:         "./data",
		CreateIfMissing: true,
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendPebble, BackendGoLevelDB, BackendNative:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.Backend != BackendMemory && c.DataDir == "" {
		return fmt.Errorf("config: data_dir is required for backend %q", c.Backend)
	}
	if _, err := c.LogOptions(); err != nil {
		return err
	}
	return nil
}

// LogOptions converts the log section into options for log.Init.
func (c Config) LogOptions() (log.Options, error) {
	lvl, err := log.ParseLogLevel(c.Log.Level)
	if err != nil {
		return log.Options{}, fmt.Errorf("config: log level: %w", err)
	}
	typ, err := log.ParseLoggerType(c.Log.Format)
	if err != nil {
		return log.Options{}, fmt.Errorf("config: log format: %w", err)
	}
	return log.Options{LogLevel: lvl, Type: typ}, nil
}

// Package config loads the engine's tunables from a TOML file, sectioned
// one struct field per subsystem, each with its own sane defaults so a
// deployment only needs to override what it cares about.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/tutu-network/amas/internal/infra/engine"
)

// APIConfig controls the ops HTTP surface (cmd/amasd): health and metrics
// only, never business routing.
type APIConfig struct {
	Host string
	Port int
}

// StoreConfig selects and configures the persistence adapter.
type StoreConfig struct {
	// Driver is "memory" or "sqlite". Unrecognized values fall back to
	// "memory" at wiring time; no warning is logged.
	Driver string
	// Path is the sqlite database file. Ignored for the memory driver. An
	// empty path with the sqlite driver opens an in-process database.
	Path string
}

// MetricsConfig controls Prometheus exposition.
type MetricsConfig struct {
	Enabled bool
}

// Config is the full top-level configuration: ambient sections plus the
// nested engine.Config tuning every modeling/memory/decision/ensemble
// subsystem.
type Config struct {
	API     APIConfig
	Store   StoreConfig
	Metrics MetricsConfig
	Engine  engine.Config
}

// DefaultConfig returns the baseline configuration used when no TOML file
// overrides it.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8761,
		},
		Store: StoreConfig{
			Driver: "memory",
			Path:   "amas.db",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Engine: engine.DefaultConfig(),
	}
}

// Load reads path as TOML and overlays it onto DefaultConfig: any section
// or field the file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

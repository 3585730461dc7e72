package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is returned by Load for values that parse but cannot be used.
var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Sim     SimConfig     `toml:"sim"`
	Logging LoggingConfig `toml:"logging"`
	Demo    DemoConfig    `toml:"demo"`
}

// SimConfig sizes and limits one simulation context. Zero limits mean
// unlimited.
type SimConfig struct {
	EntityCapacity         int `toml:"entity_capacity"`    // initial index size, not a limit
	ComponentCapacity      int `toml:"component_capacity"` // initial index size, not a limit
	MaxComponents          int `toml:"max_components"`
	MaxComponentsPerEntity int `toml:"max_components_per_entity"`
	MaxSystems             int `toml:"max_systems"`
	MaxEventDepth          int `toml:"max_event_depth"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// DemoConfig drives cmd/simdemo's host loop.
type DemoConfig struct {
	Ticks      int           `toml:"ticks"` // 0 = run until interrupted
	TickRate   time.Duration `toml:"tick_rate"`
	SpawnList  string        `toml:"spawn_list"`
	ScriptsDir string        `toml:"scripts_dir"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the demo host cannot run with.
func (c *Config) Validate() error {
	if c.Demo.TickRate <= 0 {
		return fmt.Errorf("demo.tick_rate %s: must be positive: %w", c.Demo.TickRate, ErrInvalid)
	}
	if c.Demo.Ticks < 0 {
		return fmt.Errorf("demo.ticks %d: must not be negative: %w", c.Demo.Ticks, ErrInvalid)
	}
	return nil
}

// Defaults returns the configuration used when no file overrides a value.
func Defaults() *Config {
	return &Config{
		Sim: SimConfig{
			EntityCapacity:         1024,
			ComponentCapacity:      4096,
			MaxComponents:          0,
			MaxComponentsPerEntity: 64,
			MaxSystems:             256,
			MaxEventDepth:          64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Demo: DemoConfig{
			Ticks:      200,
			TickRate:   50 * time.Millisecond,
			SpawnList:  "data/yaml/spawn_list.yaml",
			ScriptsDir: "scripts",
		},
	}
}

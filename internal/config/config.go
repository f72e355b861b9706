// Package config loads duotris settings from YAML, with environment
// overrides read through godotenv.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Keys reserved for quitting; players may not bind them.
var reservedKeys = []string{"ctrl+c", "q"}

// Config is the full runtime configuration.
type Config struct {
	TickInterval time.Duration  `yaml:"tick_interval"`
	Seed         int64          `yaml:"seed"` // 0 = random based on time
	DBPath       string         `yaml:"db_path"`
	LogLevel     string         `yaml:"log_level"`
	LogFile      string         `yaml:"log_file"`
	Players      []PlayerConfig `yaml:"players"`
}

// PlayerConfig names one seat and its key bindings.
type PlayerConfig struct {
	Name string    `yaml:"name"`
	Keys KeyConfig `yaml:"keys"`
}

// KeyConfig lists the key names (as reported by bubbletea, e.g. "left",
// "a") bound to each command.
type KeyConfig struct {
	Left   []string `yaml:"left"`
	Right  []string `yaml:"right"`
	Down   []string `yaml:"down"`
	Rotate []string `yaml:"rotate"`
}

// Default returns the hardcoded configuration, used when the embedded YAML
// cannot be parsed.
func Default() Config {
	return Config{
		TickInterval: 400 * time.Millisecond,
		DBPath:       "~/.duotris/scores.db",
		LogLevel:     "info",
		LogFile:      "~/.duotris/duotris.log",
		Players: []PlayerConfig{
			{
				Name: "Player 1",
				Keys: KeyConfig{
					Left:   []string{"a"},
					Right:  []string{"d"},
					Down:   []string{"s"},
					Rotate: []string{"w"},
				},
			},
			{
				Name: "Player 2",
				Keys: KeyConfig{
					Left:   []string{"left"},
					Right:  []string{"right"},
					Down:   []string{"down"},
					Rotate: []string{"up"},
				},
			},
		},
	}
}

// Validate checks that the configuration can drive a match.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("config: tick_interval must be positive, got %s", c.TickInterval)
	}
	if len(c.Players) == 0 {
		return errors.New("config: at least one player is required")
	}

	owner := make(map[string]string)
	for _, k := range reservedKeys {
		owner[k] = "quit"
	}
	for i, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("config: player %d has no name", i+1)
		}
		bindings := []struct {
			command string
			keys    []string
		}{
			{"left", p.Keys.Left},
			{"right", p.Keys.Right},
			{"down", p.Keys.Down},
			{"rotate", p.Keys.Rotate},
		}
		for _, b := range bindings {
			if len(b.keys) == 0 {
				return fmt.Errorf("config: %s has no %s key", p.Name, b.command)
			}
			for _, k := range b.keys {
				binding := p.Name + " " + b.command
				if prev, ok := owner[k]; ok {
					return fmt.Errorf("config: key %q bound to both %s and %s", k, prev, binding)
				}
				owner[k] = binding
			}
		}
	}
	return nil
}

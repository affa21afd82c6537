// Package config loads game settings from an optional YAML file and then
// applies SENGOKU_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/talgya/sengoku/internal/planner"
)

// Config holds everything the command line needs to start a game.
type Config struct {
	// Seed fixes the randomness source. Zero uses crypto randomness.
	Seed int64 `yaml:"seed,omitempty" env:"SENGOKU_SEED"`

	// Scenario is a path to a scenario YAML file. Empty means the built-in scenario.
	Scenario string `yaml:"scenario,omitempty" env:"SENGOKU_SCENARIO"`

	// PlayerClan overrides the scenario's player clan.
	PlayerClan string `yaml:"player_clan,omitempty" env:"SENGOKU_PLAYER_CLAN"`

	// MaxTurns stops an autoplayed campaign. Zero plays until a verdict.
	MaxTurns int `yaml:"max_turns,omitempty" env:"SENGOKU_MAX_TURNS"`

	// Database is the play log path. Empty disables the log.
	Database string `yaml:"database,omitempty" env:"SENGOKU_DB"`

	LogLevel string       `yaml:"log_level,omitempty" env:"SENGOKU_LOG_LEVEL"`
	Server   ServerConfig `yaml:"server,omitempty"`

	Planner planner.Thresholds `yaml:"planner,omitempty"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Port     int    `yaml:"port,omitempty" env:"SENGOKU_PORT"`
	AdminKey string `yaml:"admin_key,omitempty" env:"SENGOKU_ADMIN_KEY"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		MaxTurns: 200,
		LogLevel: "info",
		Server:   ServerConfig{Port: 8080},
		Planner:  planner.DefaultThresholds(),
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("max_turns %d must not be negative", c.MaxTurns))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Planner.MaxActions < 0 {
		errs = append(errs, fmt.Errorf("planner.max_actions %d must not be negative", c.Planner.MaxActions))
	}
	if c.Planner.AttackShare < 0 || c.Planner.AttackShare > 1 {
		errs = append(errs, fmt.Errorf("planner.attack_share %.2f must be within [0, 1]", c.Planner.AttackShare))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rinapen/discord-game-bot/internal/games"
	"github.com/rinapen/discord-game-bot/internal/session"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Casino   CasinoConfig   `yaml:"casino"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type CasinoConfig struct {
	// HouseEdge and BaseMultiplier are decimal strings so the YAML never
	// round-trips through a binary float.
	HouseEdge      string           `yaml:"house_edge"`
	BaseMultiplier string           `yaml:"base_multiplier"`
	MaxStreak      int              `yaml:"max_streak"`
	SessionTTL     time.Duration    `yaml:"session_ttl"`
	SweepInterval  time.Duration    `yaml:"sweep_interval"`
	MinBets        map[string]int64 `yaml:"min_bets"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	base := session.DefaultConfig()
	minBets := make(map[string]int64, len(base.MinBets))
	for game, bet := range base.MinBets {
		minBets[string(game)] = bet
	}
	return &Config{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "casino.db",
		},
		Casino: CasinoConfig{
			HouseEdge:      base.HouseEdge.String(),
			BaseMultiplier: base.BaseMultiplier.String(),
			MaxStreak:      base.MaxStreak,
			SessionTTL:     base.TTL,
			SweepInterval:  30 * time.Second,
			MinBets:        minBets,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML config file, filling unset fields from Default.
// An empty path returns the defaults untouched.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	// Set defaults for fields the file zeroed out.
	defaults := Default()
	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = defaults.Server.ListenAddr
	}
	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = defaults.Server.RequestTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if config.Database.Path == "" {
		config.Database.Path = defaults.Database.Path
	}
	if config.Casino.HouseEdge == "" {
		config.Casino.HouseEdge = defaults.Casino.HouseEdge
	}
	if config.Casino.BaseMultiplier == "" {
		config.Casino.BaseMultiplier = defaults.Casino.BaseMultiplier
	}
	if config.Casino.MaxStreak == 0 {
		config.Casino.MaxStreak = defaults.Casino.MaxStreak
	}
	if config.Casino.SessionTTL == 0 {
		config.Casino.SessionTTL = defaults.Casino.SessionTTL
	}
	if config.Casino.SweepInterval == 0 {
		config.Casino.SweepInterval = defaults.Casino.SweepInterval
	}
	if len(config.Casino.MinBets) == 0 {
		config.Casino.MinBets = defaults.Casino.MinBets
	}
	if config.Log.Level == "" {
		config.Log.Level = defaults.Log.Level
	}

	return config, nil
}

// SessionConfig converts the YAML casino block into the session machine's
// typed configuration.
func (c *Config) SessionConfig() (session.Config, error) {
	edge, err := decimal.NewFromString(c.Casino.HouseEdge)
	if err != nil {
		return session.Config{}, fmt.Errorf("house_edge: %w", err)
	}
	if edge.IsNegative() || edge.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return session.Config{}, fmt.Errorf("house_edge %s out of range [0, 1)", c.Casino.HouseEdge)
	}
	base, err := decimal.NewFromString(c.Casino.BaseMultiplier)
	if err != nil {
		return session.Config{}, fmt.Errorf("base_multiplier: %w", err)
	}
	if base.LessThanOrEqual(decimal.NewFromInt(1)) {
		return session.Config{}, fmt.Errorf("base_multiplier %s must exceed 1", c.Casino.BaseMultiplier)
	}

	minBets := make(map[games.Type]int64, len(c.Casino.MinBets))
	for name, bet := range c.Casino.MinBets {
		game, err := games.Parse(name)
		if err != nil {
			return session.Config{}, fmt.Errorf("min_bets: %w", err)
		}
		if bet <= 0 {
			return session.Config{}, fmt.Errorf("min_bets: %s must be positive", name)
		}
		minBets[game] = bet
	}

	return session.Config{
		MinBets:        minBets,
		HouseEdge:      edge,
		BaseMultiplier: base,
		MaxStreak:      c.Casino.MaxStreak,
		TTL:            c.Casino.SessionTTL,
	}, nil
}

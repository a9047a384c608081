package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LeagueSettings represents the ranking configuration for a specific league
type LeagueSettings struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// IncludeAllPlay adds the all-play win weight, which needs the schedule
	IncludeAllPlay *bool `yaml:"include_all_play"`

	// OpponentPool fixes the all-play pool size. 0 derives it from the
	// league size; 10 reproduces the legacy fixed pool.
	OpponentPool int `yaml:"opponent_pool"`
}

// AllPlayEnabled reports whether the all-play weight should be included. Defaults to true.
func (s LeagueSettings) AllPlayEnabled() bool {
	if s.IncludeAllPlay == nil {
		return true
	}
	return *s.IncludeAllPlay
}

// ESPNSettings configures the ESPN API client
type ESPNSettings struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// CacheSettings configures the optional Redis response cache
type CacheSettings struct {
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

// Enabled reports whether a Redis cache is configured
func (c CacheSettings) Enabled() bool {
	return c.RedisURL != ""
}

// Config represents the entire settings file
type Config struct {
	LogLevel        string                    `yaml:"log_level"`
	ESPN            ESPNSettings              `yaml:"espn"`
	Cache           CacheSettings             `yaml:"cache"`
	DefaultSettings LeagueSettings            `yaml:"default_settings"`
	Leagues         map[string]LeagueSettings `yaml:"leagues"`
}

var configPaths = []string{
	"configs/power_rankings.yaml",
	"../configs/power_rankings.yaml",
	"../../configs/power_rankings.yaml",
}

// Default returns the configuration used when no settings file is found
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Leagues:  make(map[string]LeagueSettings),
		DefaultSettings: LeagueSettings{
			Name:        "Default League",
			Description: "Win percentage, points for and all-play wins, all-play pool sized to the league",
		},
	}
}

// Load reads settings from path. An empty path searches the default
// locations and falls back to Default when no file exists.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, candidate := range configPaths {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}

		cfg = Default()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse settings from %s: %w", path, err)
		}
		if cfg.Leagues == nil {
			cfg.Leagues = make(map[string]LeagueSettings)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv lets the environment override connection settings
func (c *Config) applyEnv() {
	if v := os.Getenv("ESPN_BASE_URL"); v != "" {
		c.ESPN.BaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate rejects settings the ranking engine cannot use
func (c *Config) Validate() error {
	if c.DefaultSettings.OpponentPool < 0 {
		return fmt.Errorf("default_settings.opponent_pool must not be negative, got %d", c.DefaultSettings.OpponentPool)
	}
	for id, league := range c.Leagues {
		if league.OpponentPool < 0 {
			return fmt.Errorf("leagues.%s.opponent_pool must not be negative, got %d", id, league.OpponentPool)
		}
	}
	if c.ESPN.Timeout < 0 {
		return fmt.Errorf("espn.timeout must not be negative, got %s", c.ESPN.Timeout)
	}
	return nil
}

// GetLeagueSettings returns settings for a specific league ID
func (c *Config) GetLeagueSettings(leagueID string) LeagueSettings {
	if settings, exists := c.Leagues[leagueID]; exists {
		return settings
	}

	// Return default settings if league not found
	return c.DefaultSettings
}

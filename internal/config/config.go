package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/iammorganparry/hwsim/internal/simulation"
)

type Config struct {
	Port     int
	DBPath   string
	LogLevel string
	APIKey   string
	// Exercise
	ScenarioPath string
	Scenario     simulation.Scenario
	// Limits
	MaxStepsPerRequest int
	MaxSessions        int
	// MCP adapter
	ServerURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               envInt("PORT", 8742),
		DBPath:             envStr("HWSIM_DB_PATH", ":memory:"),
		LogLevel:           envStr("LOG_LEVEL", "info"),
		APIKey:             envStr("API_KEY", ""),
		ScenarioPath:       envStr("HWSIM_SCENARIO", ""),
		MaxStepsPerRequest: envInt("HWSIM_MAX_STEPS", 1000),
		MaxSessions:        envInt("HWSIM_MAX_SESSIONS", 256),
		ServerURL:          envStr("HWSIM_SERVER_URL", "http://localhost:8742"),
	}

	scenario, err := LoadScenario(cfg.ScenarioPath)
	if err != nil {
		return nil, err
	}
	cfg.Scenario = scenario

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("HWSIM_DB_PATH must not be empty")
	}
	if c.MaxStepsPerRequest < 1 {
		return fmt.Errorf("HWSIM_MAX_STEPS must be positive, got %d", c.MaxStepsPerRequest)
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("HWSIM_MAX_SESSIONS must be positive, got %d", c.MaxSessions)
	}
	return c.Scenario.Validate()
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// Package config loads dispatcher defaults from .planning/gsd-cron.yaml,
// following the teacher's viper-backed Load/DefaultConfig/applyDefaults
// shape: an on-disk config fills in whatever the CLI flags leave unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds dispatcher defaults read from .planning/gsd-cron.yaml.
type Config struct {
	Agent      AgentConfig      `mapstructure:"agent"`
	Dispatcher DispatcherConfig `mapstructure:"dispatcher"`
}

// AgentConfig names the external code-generation agent binary.
type AgentConfig struct {
	Binary string `mapstructure:"binary"`
}

// DispatcherConfig holds the readiness-loop tuning knobs.
type DispatcherConfig struct {
	MaxParallel     int     `mapstructure:"max_parallel"`
	Window          string  `mapstructure:"window"`
	WeeklyBudget    float64 `mapstructure:"weekly_budget"`
	IntervalMinutes int     `mapstructure:"interval_minutes"`
}

// Load reads .planning/gsd-cron.yaml under projectPath, falling back to
// DefaultConfig when the file is absent. An explicit override path (from
// the --config flag) takes precedence over the project-relative default.
func Load(projectPath string, override string) (*Config, error) {
	configPath := filepath.Join(projectPath, ".planning", "gsd-cron.yaml")
	if override != "" {
		configPath = override
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading gsd-cron.yaml: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing gsd-cron.yaml: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// DefaultConfig returns the built-in dispatcher defaults.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{Binary: "claude"},
		Dispatcher: DispatcherConfig{
			MaxParallel:     2,
			Window:          "",
			WeeklyBudget:    0,
			IntervalMinutes: 30,
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Agent.Binary == "" {
		cfg.Agent.Binary = defaults.Agent.Binary
	}
	if cfg.Dispatcher.MaxParallel == 0 {
		cfg.Dispatcher.MaxParallel = defaults.Dispatcher.MaxParallel
	}
	if cfg.Dispatcher.IntervalMinutes == 0 {
		cfg.Dispatcher.IntervalMinutes = defaults.Dispatcher.IntervalMinutes
	}
}

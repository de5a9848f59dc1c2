package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries the tunables that are deployment concerns rather than
// planning inputs: solver limits, horizon length, storage billing knobs.
// Values resolve in the usual order: defaults, then an optional config
// file, then PLANNER_-prefixed environment variables.
type Config struct {
	HorizonDays int `mapstructure:"horizon_days"`

	SolverProvider  string        `mapstructure:"solver_provider"`
	SolverTimeLimit time.Duration `mapstructure:"solver_time_limit"`
	SolverGapRel    float64       `mapstructure:"solver_gap_rel"`
	SolverThreads   int           `mapstructure:"solver_threads"`
	SolverVerbose   bool          `mapstructure:"solver_verbose"`

	PalletAmortizationDays int `mapstructure:"pallet_amortization_days"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from the given file (optional, "" skips it),
// a .env file when present, and the environment. Each call builds a fresh
// viper instance; nothing is process-global.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("horizon_days", 28)
	v.SetDefault("solver_provider", "highs")
	v.SetDefault("solver_time_limit", 5*time.Minute)
	v.SetDefault("solver_gap_rel", 0.01)
	v.SetDefault("solver_threads", 0)
	v.SetDefault("solver_verbose", false)
	v.SetDefault("pallet_amortization_days", 7)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("PLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values for internal consistency.
func (c *Config) Validate() error {
	if c.HorizonDays < 1 {
		return fmt.Errorf("horizon_days must be at least 1, got %d", c.HorizonDays)
	}
	if c.SolverTimeLimit <= 0 {
		return fmt.Errorf("solver_time_limit must be positive, got %s", c.SolverTimeLimit)
	}
	if c.SolverGapRel < 0 {
		return fmt.Errorf("solver_gap_rel cannot be negative, got %g", c.SolverGapRel)
	}
	if c.PalletAmortizationDays < 1 {
		return fmt.Errorf("pallet_amortization_days must be at least 1, got %d", c.PalletAmortizationDays)
	}
	return nil
}

// Package config provides configuration management for the Stake Engine application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from a file, expanding environment variables,
// then overlays any STAKE_ENGINE_* environment variables on top.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix("STAKE_ENGINE")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		// Expand environment variables in the configuration (${VAR} syntax)
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	// Unmarshal configuration into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadAndValidate loads configuration and runs validation in one step
func LoadAndValidate(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// setDefaults registers reasonable defaults so a minimal config file still
// yields a runnable configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "stake-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 5)

	v.SetDefault("model_service.timeout_seconds", 10)
	v.SetDefault("model_service.max_retries", 3)
	v.SetDefault("model_service.rate_limit_per_sec", 10.0)
	v.SetDefault("model_service.use_baseline", true)
	v.SetDefault("model_service.cache_ttl_seconds", 300)
	v.SetDefault("model_service.cache_max_size", 10000)

	v.SetDefault("staking.default_strategy", "kelly_fractional")
	v.SetDefault("staking.kelly_fraction", 0.25)
	v.SetDefault("staking.fixed_percent", 2.0)
	v.SetDefault("staking.fixed_amount", 10.0)

	v.SetDefault("bankroll.initial_bankroll", 1000.0)
	v.SetDefault("bankroll.default_max_stake_percent", 5.0)
	v.SetDefault("bankroll.default_daily_loss_limit", 100.0)
	v.SetDefault("bankroll.default_weekly_loss_limit", 400.0)

	v.SetDefault("api.enabled", true)
	v.SetDefault("api.port", 8000)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("health.port", 8080)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.reconcile_schedule", "@every 5m")

	v.SetDefault("features.paper_trading_enabled", true)
	v.SetDefault("features.live_betting_enabled", false)
}

// ReloadFromEnv reloads the full configuration when STAKE_ENGINE_CONFIG_PATH is set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv("STAKE_ENGINE_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}

	return nil
}

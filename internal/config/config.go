// Package config provides configuration management for the Stake Engine application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	ModelService ModelServiceConfig `mapstructure:"model_service"`
	Staking      StakingConfig      `mapstructure:"staking" validate:"required"`
	Bankroll     BankrollConfig     `mapstructure:"bankroll" validate:"required"`
	API          APIConfig          `mapstructure:"api"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Health       HealthConfig       `mapstructure:"health"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	AWS          AWSConfig          `mapstructure:"aws"`
	Features     FeaturesConfig     `mapstructure:"features"`
}

// AppConfig contains application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"oneof=disable require verify-ca verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"min=1"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"min=0"`
}

// ModelServiceConfig contains settings for the remote prediction service
type ModelServiceConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey          string  `mapstructure:"api_key"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"min=1"`
	MaxRetries      int     `mapstructure:"max_retries" validate:"min=0"`
	RateLimitPerSec float64 `mapstructure:"rate_limit_per_sec" validate:"gt=0"`
	UseBaseline     bool    `mapstructure:"use_baseline"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"min=0"`
	CacheMaxSize    int     `mapstructure:"cache_max_size" validate:"min=0"`
}

// StakingConfig contains stake sizing parameters
type StakingConfig struct {
	DefaultStrategy string  `mapstructure:"default_strategy" validate:"required,strategy"`
	KellyFraction   float64 `mapstructure:"kelly_fraction" validate:"gt=0,lte=1"`
	FixedPercent    float64 `mapstructure:"fixed_percent" validate:"gt=0,lte=100"`
	FixedAmount     float64 `mapstructure:"fixed_amount" validate:"gte=0"`
}

// BankrollConfig contains default limits for newly opened accounts
type BankrollConfig struct {
	InitialBankroll        float64 `mapstructure:"initial_bankroll" validate:"gt=0"`
	DefaultMaxStakePercent float64 `mapstructure:"default_max_stake_percent" validate:"gt=0,lte=100"`
	DefaultDailyLossLimit  float64 `mapstructure:"default_daily_loss_limit" validate:"gte=0"`
	DefaultWeeklyLossLimit float64 `mapstructure:"default_weekly_loss_limit" validate:"gte=0"`
}

// MetricsConfig contains Prometheus metrics settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// APIConfig contains HTTP API server settings
type APIConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// HealthConfig contains health check server settings
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// SchedulerConfig contains settings for background reconciliation
type SchedulerConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ReconcileSchedule string `mapstructure:"reconcile_schedule"`
}

// AWSConfig contains AWS integration settings
type AWSConfig struct {
	Region         string `mapstructure:"region"`
	SecretsName    string `mapstructure:"secrets_name"`
	SecretsEnabled bool   `mapstructure:"secrets_enabled"`
}

// FeaturesConfig contains feature flags
type FeaturesConfig struct {
	PaperTradingEnabled bool `mapstructure:"paper_trading_enabled"`
	LiveBettingEnabled  bool `mapstructure:"live_betting_enabled"`
}

// GetDatabaseDSN returns the PostgreSQL connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ModelServiceTimeout returns the configured model service timeout as a duration
func (c *Config) ModelServiceTimeout() time.Duration {
	return time.Duration(c.ModelService.TimeoutSeconds) * time.Second
}

// PredictionCacheTTL returns the configured prediction cache TTL as a duration
func (c *Config) PredictionCacheTTL() time.Duration {
	return time.Duration(c.ModelService.CacheTTLSeconds) * time.Second
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

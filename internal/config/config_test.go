// Package config provides configuration management for the Stake Engine application.
package config

import (
	"strings"
	"testing"
)

const (
	validConfigPath     = "testdata/valid_config.yaml"
	expansionConfigPath = "testdata/expansion_config.yaml"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.App.Name != "stake-engine" {
		t.Errorf("expected app name 'stake-engine', got '%s'", cfg.App.Name)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("expected environment 'development', got '%s'", cfg.App.Environment)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("expected database host 'localhost', got '%s'", cfg.Database.Host)
	}

	if cfg.Staking.DefaultStrategy != "kelly_fractional" {
		t.Errorf("expected default strategy 'kelly_fractional', got '%s'", cfg.Staking.DefaultStrategy)
	}

	if cfg.Bankroll.DefaultMaxStakePercent != 5.0 {
		t.Errorf("expected default max stake percent 5.0, got %f", cfg.Bankroll.DefaultMaxStakePercent)
	}
}

// TestLoadConfigMissingFile tests that a missing file falls back to defaults
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := Load("testdata/nonexistent_config.yaml")
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("expected default environment 'development', got '%s'", cfg.App.Environment)
	}

	if cfg.Staking.KellyFraction != 0.25 {
		t.Errorf("expected default kelly fraction 0.25, got %f", cfg.Staking.KellyFraction)
	}

	if !cfg.API.Enabled || cfg.API.Port != 8000 {
		t.Errorf("expected API enabled on default port 8000, got enabled=%v port=%d", cfg.API.Enabled, cfg.API.Port)
	}
}

// TestLoadConfigEnvExpansion tests ${VAR} expansion in config files
func TestLoadConfigEnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Database.Password != "expanded_secret_value" {
		t.Errorf("expected expanded password, got '%s'", cfg.Database.Password)
	}
}

// TestValidateSuccess tests validation of a complete configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests rejection of an unknown environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg.App.Environment = "invalid"

	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
	if !strings.Contains(err.Error(), "Environment") {
		t.Errorf("expected environment validation error, got %v", err)
	}
}

// TestValidateInvalidStrategy tests rejection of an unknown staking strategy
func TestValidateInvalidStrategy(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg.Staking.DefaultStrategy = "martingale"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for unsupported strategy")
	}
}

// TestValidateProductionSSL tests that production rejects disabled SSL
func TestValidateProductionSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"

	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for production with SSL disabled")
	}
	if !strings.Contains(err.Error(), "SSL") {
		t.Errorf("expected SSL validation error, got %v", err)
	}
}

// TestValidateDailyExceedsWeekly tests cross-field loss limit validation
func TestValidateDailyExceedsWeekly(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg.Bankroll.DefaultDailyLossLimit = 500.0
	cfg.Bankroll.DefaultWeeklyLossLimit = 400.0

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for daily limit exceeding weekly limit")
	}
}

// TestValidateRemoteRequiresBaseURL tests that disabling the baseline requires a base URL
func TestValidateRemoteRequiresBaseURL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg.ModelService.UseBaseline = false
	cfg.ModelService.BaseURL = ""

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error when remote model service lacks base_url")
	}
}

// TestGetDatabaseDSN tests DSN construction
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	dsn := cfg.GetDatabaseDSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("expected DSN to start with postgres://, got '%s'", dsn)
	}
	if !strings.Contains(dsn, "stake_engine") {
		t.Errorf("expected DSN to contain database name, got '%s'", dsn)
	}
}

// TestEnvOverride tests STAKE_ENGINE_* environment overrides
func TestEnvOverride(t *testing.T) {
	t.Setenv("STAKE_ENGINE_APP_LOG_LEVEL", "error")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.LogLevel != "error" {
		t.Errorf("expected log level override 'error', got '%s'", cfg.App.LogLevel)
	}
}

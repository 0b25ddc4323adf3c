package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	"attendance-backend/internal/email"
)

type RBACConfig struct {
	PolicyFile string `mapstructure:"policy_file"` // Path to the RBAC policy file
}

type Config struct {
	// Secret key for signing tokens. Must be set in production.
	Secret string `mapstructure:"secret"`
	// TTL for auth tokens in minutes
	TokenTTL uint `mapstructure:"token_ttl"`
	// TTL for single-use password setup tokens in minutes
	SetupTokenTTL uint `mapstructure:"setup_token_ttl"`

	LogLevel string `mapstructure:"log_level"`

	// IANA name of the zone all attendance timestamps are interpreted in.
	TimeZone string `mapstructure:"time_zone"`

	// Maximum number of check-ins per employee per calendar day.
	DailyCheckInLimit int `mapstructure:"daily_checkin_limit"`

	// Cron schedule for the daily cutoff job, evaluated in TimeZone.
	CutoffSchedule string `mapstructure:"cutoff_schedule"`
	// How many days back the cutoff job looks for stale active sessions.
	CutoffLookbackDays int `mapstructure:"cutoff_lookback_days"`
	// Minutes after the cutoff instant at which continuation sessions open.
	ContinuationOffsetMinutes int `mapstructure:"continuation_offset_minutes"`

	// Cron schedule for the monthly timesheet mail-out.
	ReportSchedule string `mapstructure:"report_schedule"`
	HREmail        string `mapstructure:"hr_email"`

	RBAC RBACConfig `mapstructure:"rbac"`

	Storage Storage `mapstructure:"storage"`

	// SMTP configuration
	Email email.Client `mapstructure:"email"`
}

var Cfg *Config

// Check if running in Docker container by checking for the presence of /.dockerenv file
func runningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func getConfigPath() string {
	if runningInDocker() {
		return "/app/instance"
	}
	return "./instance"
}

// Location resolves the configured time zone. Falls back to UTC with a
// warning if the zone name does not resolve.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		slog.Warn("Invalid time zone, falling back to UTC", "time_zone", c.TimeZone, "error", err)
		return time.UTC
	}
	return loc
}

// LoadConfig reads configuration from environment variables and an optional
// config file in the instance directory.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvPrefix("")

	if len(configFile) > 0 {
		for _, path := range configFile {
			v.SetConfigFile(path)
		}
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	// Load configuration from environment variables
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	if cfg.DailyCheckInLimit < 1 {
		slog.Warn("DAILY_CHECKIN_LIMIT must be at least 1, using default", "actual", cfg.DailyCheckInLimit)
		cfg.DailyCheckInLimit = Defaults()["daily_checkin_limit"].(int)
	}
	if cfg.CutoffLookbackDays < 1 {
		slog.Warn("CUTOFF_LOOKBACK_DAYS must be at least 1, using default", "actual", cfg.CutoffLookbackDays)
		cfg.CutoffLookbackDays = Defaults()["cutoff_lookback_days"].(int)
	}

	// Convert relative sqlite path to absolute instance folder
	if cfg.Storage.SQLite != nil {
		if cfg.Storage.SQLite.Path == ":memory:" {
			// In-memory database, do nothing
		} else if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), cfg.Storage.SQLite.Path)
		}
	}

	// Warn if secret is missing - this is a critical security setting for production
	if cfg.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("SECRET configuration variable is required in production")
		} else {
			slog.Warn("Secret is not set. Do not use in production.")
		}
	}

	return &cfg, nil
}

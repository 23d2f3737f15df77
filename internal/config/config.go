package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the CLI configuration loaded from .env files and environment variables.
type Config struct {
	AppName      string `mapstructure:"app_name"`
	LogLevel     string `mapstructure:"log_level"`
	ProfilesFile string `mapstructure:"profiles_file"`

	TimeoutSeconds int64         `mapstructure:"timeout_seconds"`
	Timeout        time.Duration `mapstructure:"-"`

	HistoryType            string        `mapstructure:"history_type"`
	HistoryPath            string        `mapstructure:"history_path"`
	HistoryTTLSeconds      int64         `mapstructure:"history_ttl_seconds"`
	HistoryCleanupSeconds  int64         `mapstructure:"history_cleanup_interval_seconds"`
	HistoryTTL             time.Duration `mapstructure:"-"`
	HistoryCleanupInterval time.Duration `mapstructure:"-"`
}

// EnvPrefix is prepended to every environment variable the CLI reads.
const EnvPrefix = "REQAID"

// Load reads configuration from configs/.env and REQAID_* environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	v.SetDefault("app_name", "reqaid")
	v.SetDefault("log_level", "warn")
	v.SetDefault("profiles_file", "./configs/profiles.yaml")
	v.SetDefault("timeout_seconds", 60)
	v.SetDefault("history_type", "bbolt")
	v.SetDefault("history_path", "./data/history.db")
	v.SetDefault("history_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("history_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	var err error
	if cfg.Timeout, err = positiveSeconds("timeout_seconds", cfg.TimeoutSeconds); err != nil {
		return nil, err
	}
	if cfg.HistoryTTL, err = positiveSeconds("history_ttl_seconds", cfg.HistoryTTLSeconds); err != nil {
		return nil, err
	}
	if cfg.HistoryCleanupInterval, err = positiveSeconds("history_cleanup_interval_seconds", cfg.HistoryCleanupSeconds); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func positiveSeconds(key string, n int64) (time.Duration, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s %d (must be positive seconds)", key, n)
	}
	return time.Duration(n) * time.Second, nil
}

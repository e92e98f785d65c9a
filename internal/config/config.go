// Package config loads and validates application configuration.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Sources  SourcesConfig  `mapstructure:"sources"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SourcesConfig holds the feed pages and the query/transport settings shared
// by both.
type SourcesConfig struct {
	MoneywayURL     string        `mapstructure:"moneyway_url"`
	DroppingURL     string        `mapstructure:"dropping_url"`
	TimeZone        string        `mapstructure:"time_zone"` // "+HH:MM" offset passed to the source pages
	Day             string        `mapstructure:"day"`       // Today | Tomorrow | All
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryDelayBase  time.Duration `mapstructure:"retry_delay_base"`
	UserAgent       string        `mapstructure:"user_agent"`
}

// AlertsConfig holds the compound-threshold settings.
type AlertsConfig struct {
	SmartMoneyThreshold float64 `mapstructure:"smart_money_threshold"` // min % of money on one sign
	DroppingThreshold   float64 `mapstructure:"dropping_threshold"`    // min price drop %
}

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// StorageConfig holds alert journal configuration.
type StorageConfig struct {
	DBPath    string `mapstructure:"db_path"`
	MaxAlerts int    `mapstructure:"max_alerts"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var timeZoneRe = regexp.MustCompile(`^[+-]\d{2}:\d{2}$`)

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("SMART_MONEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("sources.moneyway_url", "https://arbworld.net/en/moneyway/football-1-x-2")
	v.SetDefault("sources.dropping_url", "https://arbworld.net/en/dropping-odds/football-1-x-2")
	v.SetDefault("sources.time_zone", "+07:00")
	v.SetDefault("sources.day", "Today")
	v.SetDefault("sources.refresh_interval", "60s")
	v.SetDefault("sources.timeout", "30s")
	v.SetDefault("sources.max_retries", 3)
	v.SetDefault("sources.retry_delay_base", "1s")
	v.SetDefault("sources.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36")

	v.SetDefault("alerts.smart_money_threshold", 90.0)
	v.SetDefault("alerts.dropping_threshold", 7.0)

	v.SetDefault("storage.db_path", "./data/smart-money-alert.db")
	v.SetDefault("storage.max_alerts", 1000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.Sources.MoneywayURL == "" {
		return fmt.Errorf("sources.moneyway_url is required")
	}
	if c.Sources.DroppingURL == "" {
		return fmt.Errorf("sources.dropping_url is required")
	}
	if !timeZoneRe.MatchString(c.Sources.TimeZone) {
		return fmt.Errorf("sources.time_zone must be a +HH:MM offset")
	}
	switch c.Sources.Day {
	case "Today", "Tomorrow", "All":
	default:
		return fmt.Errorf("sources.day must be one of: Today, Tomorrow, All")
	}
	if c.Sources.RefreshInterval < 10*time.Second {
		return fmt.Errorf("sources.refresh_interval must be at least 10 seconds")
	}
	if c.Sources.Timeout < time.Second {
		return fmt.Errorf("sources.timeout must be at least 1 second")
	}
	if c.Sources.MaxRetries < 1 {
		return fmt.Errorf("sources.max_retries must be at least 1")
	}

	if c.Alerts.SmartMoneyThreshold < 0 || c.Alerts.SmartMoneyThreshold > 100 {
		return fmt.Errorf("alerts.smart_money_threshold must be between 0 and 100")
	}
	if c.Alerts.DroppingThreshold < 0 || c.Alerts.DroppingThreshold > 100 {
		return fmt.Errorf("alerts.dropping_threshold must be between 0 and 100")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	if c.Storage.MaxAlerts < 1 {
		return fmt.Errorf("storage.max_alerts must be at least 1")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

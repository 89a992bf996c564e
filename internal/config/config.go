package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPConfig struct {
	Address string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file" env:"LOG_FILE"`
}

// Config keeps runtime settings for the planner.
type Config struct {
	TelegramToken string `yaml:"telegram_token" env:"TELEGRAM_TOKEN"`
	DatabaseURL   string `yaml:"database_url" env:"DATABASE_URL" env-default:"daily_planner.db"`
	Timezone      string `yaml:"timezone" env:"TIMEZONE" env-default:"Local"`

	// ReportTime is the HH:MM local time of the morning summary.
	ReportTime          string `yaml:"report_time" env:"REPORT_TIME" env-default:"08:00"`
	ReportIntervalHours int    `yaml:"report_interval_hours" env:"REPORT_INTERVAL_HOURS" env-default:"0"`

	HTTP HTTPConfig `yaml:"http"`
	Log  LogConfig  `yaml:"log"`
}

// Load reads configuration from the file at path, falling back to the
// environment when path is empty or the file does not exist.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return cfg, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("read env: %w", err)
		}
	}

	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "daily_planner.db"
	}
	if cfg.ReportIntervalHours < 0 {
		return cfg, fmt.Errorf("REPORT_INTERVAL_HOURS must not be negative")
	}

	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return cfg, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location is the reference timezone that defines "today".
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ReportInterval is zero when interval reports are disabled.
func (c Config) ReportInterval() time.Duration {
	return time.Duration(c.ReportIntervalHours) * time.Hour
}

// BotEnabled reports whether a Telegram token is configured.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

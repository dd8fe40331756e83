package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// Config is the bot's process configuration, read from the environment
type Config struct {
	BotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	BotUsername string `env:"BOT_USERNAME"`
	// BotDisabled runs only the HTTP side, e.g. for local development
	BotDisabled bool          `env:"BOT_DISABLED" envDefault:"false"`
	PollTimeout time.Duration `env:"POLL_TIMEOUT" envDefault:"60s"`
	Concurrency int           `env:"BOT_CONCURRENCY" envDefault:"8"`

	WebAppURL string `env:"WEB_APP_URL" envDefault:"https://eaglezonegame.netlify.app"`
	Host      string `env:"HOST"`
	Port      int    `env:"PORT" envDefault:"3000"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"eaglezone.db"`

	InviteBonus      int64 `env:"INVITE_BONUS" envDefault:"500"`
	FriendsPerReward int   `env:"FRIENDS_PER_REWARD" envDefault:"10"`
	RewardAmount     int64 `env:"REWARD_AMOUNT" envDefault:"10000"`

	// AdminTokenHash is a bcrypt hash; admin endpoints are disabled when empty
	AdminTokenHash string `env:"ADMIN_TOKEN_HASH"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements
func (c Config) Validate() error {
	var errs []error

	if !c.BotDisabled && c.BotToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN required unless BOT_DISABLED=true"))
	}

	switch c.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL required when STORAGE_TYPE=redis"))
		}
	case StorageTypeSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH required when STORAGE_TYPE=sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or sqlite", c.StorageType))
	}

	if c.InviteBonus < 0 || c.RewardAmount < 0 {
		errs = append(errs, errors.New("reward amounts must not be negative"))
	}
	if c.FriendsPerReward < 0 {
		errs = append(errs, errors.New("FRIENDS_PER_REWARD must not be negative"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}

	return errors.Join(errs...)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/eaglezone/eaglezone-bot/internal/config"
	"github.com/eaglezone/eaglezone-bot/internal/dependencies/clock"
	"github.com/eaglezone/eaglezone-bot/internal/dependencies/messenger"
	"github.com/eaglezone/eaglezone-bot/internal/services/avatar"
	"github.com/eaglezone/eaglezone-bot/internal/services/onboarding"
	"github.com/eaglezone/eaglezone-bot/internal/services/referral"
	"github.com/eaglezone/eaglezone-bot/internal/storage"
	"github.com/eaglezone/eaglezone-bot/internal/storage/memory"
	redisstorage "github.com/eaglezone/eaglezone-bot/internal/storage/redis"
	sqlitestorage "github.com/eaglezone/eaglezone-bot/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.PlayerStore

	// External dependencies
	Clock     clock.Clock
	Messenger messenger.Messenger
	Avatars   avatar.Resolver

	// Services
	ReferralService   *referral.Service
	OnboardingService *onboarding.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// Referral is the reward schedule
	// If nil, defaults to referral.DefaultConfig(); a supplied all-zero
	// schedule is kept as is
	Referral *referral.Config
	// Onboarding holds the links embedded in replies
	Onboarding onboarding.Config
	// Messenger delivers replies (optional)
	// If nil, messages are discarded
	Messenger messenger.Messenger
	// PhotoSource looks up profile photos (optional)
	// If nil, every player gets a placeholder avatar
	PhotoSource avatar.PhotoSource
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.PlayerStore
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case config.StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	msgr := cfg.Messenger
	if msgr == nil {
		msgr = messenger.Discard{}
	}

	referralCfg := referral.DefaultConfig()
	if cfg.Referral != nil {
		referralCfg = *cfg.Referral
	}

	onboardingCfg := cfg.Onboarding
	if onboardingCfg.WebAppURL == "" {
		onboardingCfg.WebAppURL = onboarding.DefaultConfig().WebAppURL
	}

	avatars := avatar.New(cfg.PhotoSource, logger)

	return newWithDependencies(store, clock.New(), msgr, avatars, referralCfg, onboardingCfg, logger), nil
}

// FromConfig translates process configuration into factory configuration
func FromConfig(c config.Config, logger *slog.Logger) Config {
	cfg := Config{
		Logger:      logger,
		StorageType: c.StorageType,
		SQLitePath:  c.SQLitePath,
		Referral: &referral.Config{
			InviteBonus:      c.InviteBonus,
			FriendsPerReward: c.FriendsPerReward,
			RewardAmount:     c.RewardAmount,
		},
		Onboarding: onboarding.Config{
			WebAppURL:   c.WebAppURL,
			BotUsername: c.BotUsername,
		},
	}
	if c.StorageType == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.PlayerStore,
	clk clock.Clock,
	msgr messenger.Messenger,
	avatars avatar.Resolver,
	referralCfg referral.Config,
	onboardingCfg onboarding.Config,
	logger *slog.Logger,
) *App {
	referralService := referral.New(store, clk, referralCfg)
	onboardingService := onboarding.New(store, referralService, avatars, msgr, clk, onboardingCfg, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Messenger:         msgr,
		Avatars:           avatars,
		ReferralService:   referralService,
		OnboardingService: onboardingService,
	}
}

// Close releases storage resources
func (a *App) Close() error {
	return a.Storage.Close()
}

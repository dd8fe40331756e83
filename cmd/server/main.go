package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/eaglezone/eaglezone-bot/internal/api"
	"github.com/eaglezone/eaglezone-bot/internal/config"
	"github.com/eaglezone/eaglezone-bot/internal/factory"
	"github.com/eaglezone/eaglezone-bot/internal/telegram"
)

func main() {
	// Bootstrap logger until the configured level is known
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	appCfg := factory.FromConfig(cfg, logger)

	var bot telegram.BotAPI
	if !cfg.BotDisabled {
		client, username, err := telegram.Connect(cfg.BotToken)
		if err != nil {
			logger.Error("failed to connect to telegram", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if appCfg.Onboarding.BotUsername == "" {
			appCfg.Onboarding.BotUsername = username
		}
		logger.Info("connected to telegram", slog.String("bot", username))

		bot = client
		appCfg.Messenger = telegram.NewMessenger(client)
		appCfg.PhotoSource = telegram.NewPhotoSource(client)
	} else {
		logger.Warn("telegram bot disabled; running HTTP only")
	}

	// Create application factory
	app, err := factory.New(appCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		Storage:           app.Storage,
		OnboardingService: app.OnboardingService,
		AdminTokenHash:    cfg.AdminTokenHash,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	if bot != nil {
		pollerCfg := telegram.DefaultPollerConfig()
		pollerCfg.TimeoutSeconds = int(cfg.PollTimeout.Seconds())
		pollerCfg.MaxConcurrency = cfg.Concurrency
		poller := telegram.NewPoller(bot, app.OnboardingService, pollerCfg, logger)
		g.Go(func() error {
			return poller.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

package telegram

import (
	"context"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/services/onboarding"
)

// StartHandler processes start commands
type StartHandler interface {
	HandleStart(ctx context.Context, ev onboarding.StartEvent) (*onboarding.Outcome, error)
}

// PollerConfig holds long-polling settings
type PollerConfig struct {
	// TimeoutSeconds is the getUpdates long-poll timeout
	TimeoutSeconds int
	// MaxConcurrency bounds how many updates are handled at once
	MaxConcurrency int
}

// DefaultPollerConfig returns sensible polling defaults
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		TimeoutSeconds: 60,
		MaxConcurrency: 8,
	}
}

// Poller long-polls for updates and dispatches /start commands
type Poller struct {
	bot     BotAPI
	handler StartHandler
	cfg     PollerConfig
	logger  *slog.Logger
}

// NewPoller creates a Poller
func NewPoller(bot BotAPI, handler StartHandler, cfg PollerConfig, logger *slog.Logger) *Poller {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultPollerConfig().MaxConcurrency
	}
	return &Poller{
		bot:     bot,
		handler: handler,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run polls until ctx is cancelled or the update channel closes, then waits
// for in-flight updates to finish
func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.cfg.TimeoutSeconds
	updates := p.bot.GetUpdatesChan(u)

	var g errgroup.Group
	g.SetLimit(p.cfg.MaxConcurrency)

	p.logger.Info("telegram poller started")
	defer p.logger.Info("telegram poller stopped")

	for {
		select {
		case <-ctx.Done():
			p.bot.StopReceivingUpdates()
			return g.Wait()
		case update, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			ev, ok := StartEventFromUpdate(update)
			if !ok {
				continue
			}
			g.Go(func() error {
				// Failures are already reported to the player and logged
				_, _ = p.handler.HandleStart(context.WithoutCancel(ctx), ev)
				return nil
			})
		}
	}
}

// StartEventFromUpdate converts a /start command update into a StartEvent
func StartEventFromUpdate(update tgbotapi.Update) (onboarding.StartEvent, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return onboarding.StartEvent{}, false
	}
	if !msg.IsCommand() || msg.Command() != "start" {
		return onboarding.StartEvent{}, false
	}

	return onboarding.StartEvent{
		PlayerID: model.PlayerID(strconv.FormatInt(msg.From.ID, 10)),
		ChatID:   strconv.FormatInt(msg.Chat.ID, 10),
		Profile: model.Profile{
			Username:  msg.From.UserName,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
		},
		ReferralToken: msg.CommandArguments(),
	}, true
}

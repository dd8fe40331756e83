package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/eaglezone/eaglezone-bot/internal/dependencies/clock"
	"github.com/eaglezone/eaglezone-bot/internal/dependencies/messenger"
	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/services/avatar"
	"github.com/eaglezone/eaglezone-bot/internal/services/referral"
	"github.com/eaglezone/eaglezone-bot/internal/storage"
)

// StartEvent is an incoming start command
type StartEvent struct {
	PlayerID model.PlayerID
	// ChatID is where the reply goes; defaults to the player's id
	ChatID        string
	Profile       model.Profile
	ReferralToken string
}

// Outcome describes what one start event changed
type Outcome struct {
	Player *model.Player
	// Created is true when this event registered the player
	Created bool
	// Attributed is true when this event fixed the player's referrer
	Attributed bool
	// Credit is the referral credit applied by this event, if any
	Credit *referral.Credit
}

// Config holds the links embedded in replies
type Config struct {
	WebAppURL   string
	BotUsername string
}

// DefaultConfig returns the production web app link with no bot username
func DefaultConfig() Config {
	return Config{
		WebAppURL: "https://eaglezonegame.netlify.app",
	}
}

// Service turns start commands into player records and referral credits
type Service struct {
	storage   storage.PlayerStore
	referrals *referral.Service
	avatars   avatar.Resolver
	messenger messenger.Messenger
	clock     clock.Clock
	cfg       Config
	logger    *slog.Logger
}

// New creates a new onboarding Service
func New(
	storage storage.PlayerStore,
	referrals *referral.Service,
	avatars avatar.Resolver,
	messenger messenger.Messenger,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		referrals: referrals,
		avatars:   avatars,
		messenger: messenger,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
}

// HandleStart onboards the player and sends the replies. On a store failure
// the player gets a generic apology and the error is returned.
func (s *Service) HandleStart(ctx context.Context, ev StartEvent) (*Outcome, error) {
	chatID := ev.ChatID
	if chatID == "" {
		chatID = string(ev.PlayerID)
	}

	logger := s.logger.With(
		slog.String("event_id", uuid.NewString()),
		slog.String("player_id", string(ev.PlayerID)),
	)
	logger.Debug("start command received", slog.String("referral_token", ev.ReferralToken))

	outcome, err := s.Onboard(ctx, ev)
	if err != nil {
		logger.Error("onboarding failed", slog.String("error", err.Error()))
		s.send(ctx, logger, chatID, ApologyMessage())
		return nil, err
	}

	attrs := []any{
		slog.Bool("created", outcome.Created),
		slog.Bool("attributed", outcome.Attributed),
		slog.String("referred_by", string(outcome.Player.ReferredBy)),
	}
	if outcome.Credit != nil {
		attrs = append(attrs,
			slog.String("referrer_id", string(outcome.Credit.ReferrerID)),
			slog.Int64("credited", outcome.Credit.Amount()),
			slog.Int("total_referrals", outcome.Credit.TotalReferrals),
		)
	}
	logger.Info("player onboarded", attrs...)

	s.send(ctx, logger, chatID, s.InvitationMessage(outcome.Player))
	if outcome.Credit != nil {
		s.send(ctx, logger, string(outcome.Credit.ReferrerID),
			ReferrerNotification(outcome.Credit, outcome.Player.DisplayName))
	}

	return outcome, nil
}

func (s *Service) send(ctx context.Context, logger *slog.Logger, chatID string, msg messenger.Message) {
	if err := s.messenger.Send(ctx, chatID, msg); err != nil {
		logger.Warn("failed to send message",
			slog.String("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// Onboard applies a start event to the store without sending any messages
func (s *Service) Onboard(ctx context.Context, ev StartEvent) (*Outcome, error) {
	if ev.PlayerID == "" {
		return nil, model.ErrInvalidPlayer
	}
	candidate := candidateReferrer(ev)

	existing, err := s.storage.GetPlayer(ctx, ev.PlayerID)
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		outcome, err := s.register(ctx, ev, candidate)
		if !errors.Is(err, model.ErrPlayerExists) {
			return outcome, err
		}
		// A concurrent start for the same player created the record first
		existing, err = s.storage.GetPlayer(ctx, ev.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("reload player %s: %w", ev.PlayerID, err)
		}
	case err != nil:
		return nil, fmt.Errorf("load player %s: %w", ev.PlayerID, err)
	}

	return s.revisit(ctx, existing, candidate)
}

// candidateReferrer parses the token; self-referral counts as no referrer
func candidateReferrer(ev StartEvent) model.PlayerID {
	id, ok := referral.ParseToken(ev.ReferralToken)
	if !ok || id == ev.PlayerID {
		return ""
	}
	return id
}

// register creates a first-time player and credits their referrer
func (s *Service) register(ctx context.Context, ev StartEvent, candidate model.PlayerID) (*Outcome, error) {
	avatarURL := s.avatars.Resolve(ctx, ev.PlayerID)

	player, err := model.NewPlayer(ev.PlayerID, ev.Profile, avatarURL, candidate, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		if errors.Is(err, model.ErrPlayerExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create player %s: %w", ev.PlayerID, err)
	}

	outcome := &Outcome{Player: player, Created: true, Attributed: candidate != ""}
	if candidate != "" {
		outcome.Credit, err = s.credit(ctx, candidate, player.ID)
		if err != nil {
			return nil, err
		}
		outcome.Player = s.settle(ctx, player)
	}
	return outcome, nil
}

// revisit handles a start from a player who already has a record
func (s *Service) revisit(ctx context.Context, player *model.Player, candidate model.PlayerID) (*Outcome, error) {
	switch {
	case candidate != "" && !player.HasReferrer():
		return s.attribute(ctx, player, candidate)

	case candidate != "" && candidate == player.ReferredBy && !player.ReferralSettled:
		// An earlier attempt failed between writing the player and settling
		// the credit. The credit is idempotent, so retrying it is safe.
		player, err := s.backfillAvatar(ctx, player)
		if err != nil {
			return nil, err
		}
		credit, err := s.credit(ctx, candidate, player.ID)
		if err != nil {
			return nil, err
		}
		return &Outcome{Player: s.settle(ctx, player), Credit: credit}, nil

	default:
		player, err := s.backfillAvatar(ctx, player)
		if err != nil {
			return nil, err
		}
		return &Outcome{Player: player}, nil
	}
}

// attribute sets a missing referrer (first writer wins) and credits it
func (s *Service) attribute(ctx context.Context, player *model.Player, candidate model.PlayerID) (*Outcome, error) {
	var avatarURL string
	if player.AvatarURL == "" {
		avatarURL = s.avatars.Resolve(ctx, player.ID)
	}

	updated, err := s.storage.UpdatePlayer(ctx, player.ID, func(p *model.Player) error {
		if p.HasReferrer() {
			return model.ErrConditionFailed
		}
		p.ReferredBy = candidate
		if p.AvatarURL == "" {
			p.AvatarURL = avatarURL
		}
		p.UpdatedAt = s.clock.Now()
		return nil
	})
	if errors.Is(err, model.ErrConditionFailed) {
		// Another start event fixed the referrer first; it owns the credit
		current, err := s.storage.GetPlayer(ctx, player.ID)
		if err != nil {
			return nil, fmt.Errorf("reload player %s: %w", player.ID, err)
		}
		return &Outcome{Player: current}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("attribute player %s: %w", player.ID, err)
	}

	credit, err := s.credit(ctx, candidate, updated.ID)
	if err != nil {
		return nil, err
	}
	return &Outcome{Player: s.settle(ctx, updated), Attributed: true, Credit: credit}, nil
}

// backfillAvatar sets an avatar on records that never got one
func (s *Service) backfillAvatar(ctx context.Context, player *model.Player) (*model.Player, error) {
	if player.AvatarURL != "" {
		return player, nil
	}

	avatarURL := s.avatars.Resolve(ctx, player.ID)
	updated, err := s.storage.UpdatePlayer(ctx, player.ID, func(p *model.Player) error {
		if p.AvatarURL != "" {
			return model.ErrConditionFailed
		}
		p.AvatarURL = avatarURL
		p.UpdatedAt = s.clock.Now()
		return nil
	})
	if errors.Is(err, model.ErrConditionFailed) {
		return player, nil
	}
	if err != nil {
		return nil, fmt.Errorf("backfill avatar for %s: %w", player.ID, err)
	}
	return updated, nil
}

// settle marks the player's referral as resolved so later replays leave the
// referrer alone. A failed write is logged and retried by the next replay.
func (s *Service) settle(ctx context.Context, player *model.Player) *model.Player {
	if player.ReferralSettled {
		return player
	}
	updated, err := s.storage.UpdatePlayer(ctx, player.ID, func(p *model.Player) error {
		if p.ReferralSettled {
			return model.ErrConditionFailed
		}
		p.ReferralSettled = true
		p.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		if !errors.Is(err, model.ErrConditionFailed) {
			s.logger.Warn("failed to settle referral",
				slog.String("player_id", string(player.ID)),
				slog.String("error", err.Error()),
			)
		}
		return player
	}
	return updated
}

// credit applies a referral credit, treating benign refusals as no credit
func (s *Service) credit(ctx context.Context, referrerID, friendID model.PlayerID) (*referral.Credit, error) {
	credit, err := s.referrals.Apply(ctx, referrerID, friendID)
	switch {
	case err == nil:
		return credit, nil
	case errors.Is(err, model.ErrPlayerNotFound):
		s.logger.Debug("referrer does not exist, skipping credit",
			slog.String("referrer_id", string(referrerID)),
			slog.String("player_id", string(friendID)),
		)
		return nil, nil
	case errors.Is(err, referral.ErrAlreadyCredited), errors.Is(err, referral.ErrSelfReferral):
		return nil, nil
	default:
		return nil, fmt.Errorf("credit referrer %s: %w", referrerID, err)
	}
}

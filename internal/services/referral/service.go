package referral

import (
	"context"
	"errors"
	"fmt"

	"github.com/eaglezone/eaglezone-bot/internal/dependencies/clock"
	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/storage"
)

// Errors
var (
	// ErrAlreadyCredited is returned when the friend is already in the referrer's friend set
	ErrAlreadyCredited = fmt.Errorf("friend already credited: %w", model.ErrConditionFailed)
	ErrSelfReferral    = errors.New("player cannot refer themselves")
)

// Credit describes one applied referral credit
type Credit struct {
	ReferrerID     model.PlayerID
	FriendID       model.PlayerID
	InviteBonus    int64
	BatchBonus     int64
	TotalReferrals int
	Referrer       *model.Player
}

// Amount is the total credited to both tokenBalance and referralRewards
func (c Credit) Amount() int64 {
	return c.InviteBonus + c.BatchBonus
}

// ComputeBonus returns the invite bonus and the batch bonus delta for the
// increment that takes a referrer from previous to previous+1 referrals.
func ComputeBonus(cfg Config, previous int) (invite, batch int64) {
	invite = cfg.InviteBonus
	if cfg.FriendsPerReward <= 0 {
		return invite, 0
	}
	before := int64(previous / cfg.FriendsPerReward)
	after := int64((previous + 1) / cfg.FriendsPerReward)
	return invite, (after - before) * cfg.RewardAmount
}

// Service applies referral credits against the player store
type Service struct {
	storage storage.PlayerStore
	clock   clock.Clock
	cfg     Config
}

// New creates a new referral Service
func New(storage storage.PlayerStore, clock clock.Clock, cfg Config) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		cfg:     cfg,
	}
}

// Config returns the reward schedule in use
func (s *Service) Config() Config {
	return s.cfg
}

// Apply credits referrerID with friendID as a single conditional update.
//
// It returns model.ErrPlayerNotFound when the referrer does not exist and
// ErrAlreadyCredited when friendID was credited before; in both cases
// nothing is written.
func (s *Service) Apply(ctx context.Context, referrerID, friendID model.PlayerID) (*Credit, error) {
	if referrerID == friendID {
		return nil, ErrSelfReferral
	}

	var credit Credit
	updated, err := s.storage.UpdatePlayer(ctx, referrerID, func(p *model.Player) error {
		previous := len(p.Friends)
		if !p.AddFriend(friendID) {
			return ErrAlreadyCredited
		}

		invite, batch := ComputeBonus(s.cfg, previous)
		p.ReferralRewards += invite + batch
		p.TokenBalance += invite + batch
		p.UpdatedAt = s.clock.Now()

		credit = Credit{
			ReferrerID:     referrerID,
			FriendID:       friendID,
			InviteBonus:    invite,
			BatchBonus:     batch,
			TotalReferrals: p.TotalReferrals,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	credit.Referrer = updated
	return &credit, nil
}

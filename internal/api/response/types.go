package response

import (
	"time"

	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/services/onboarding"
	"github.com/eaglezone/eaglezone-bot/internal/services/referral"
)

// Player represents a player record in API responses
type Player struct {
	ID              string    `json:"id"`
	Username        string    `json:"username,omitempty"`
	DisplayName     string    `json:"display_name"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	TokenBalance    int64     `json:"token_balance"`
	ClickPower      int       `json:"click_power"`
	Energy          int       `json:"energy"`
	MaxEnergy       int       `json:"max_energy"`
	ReferredBy      string    `json:"referred_by,omitempty"`
	TotalReferrals  int       `json:"total_referrals"`
	ReferralRewards int64     `json:"referral_rewards"`
	Friends         []string  `json:"friends"`
	ReferralSettled bool      `json:"referral_settled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	friends := make([]string, len(p.Friends))
	for i, f := range p.Friends {
		friends[i] = string(f)
	}
	return Player{
		ID:              string(p.ID),
		Username:        p.Username,
		DisplayName:     p.DisplayName,
		AvatarURL:       p.AvatarURL,
		TokenBalance:    p.TokenBalance,
		ClickPower:      p.ClickPower,
		Energy:          p.Energy,
		MaxEnergy:       p.MaxEnergy,
		ReferredBy:      string(p.ReferredBy),
		TotalReferrals:  p.TotalReferrals,
		ReferralRewards: p.ReferralRewards,
		Friends:         friends,
		ReferralSettled: p.ReferralSettled,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// Credit represents an applied referral credit
type Credit struct {
	ReferrerID     string `json:"referrer_id"`
	InviteBonus    int64  `json:"invite_bonus"`
	BatchBonus     int64  `json:"batch_bonus"`
	Amount         int64  `json:"amount"`
	TotalReferrals int    `json:"total_referrals"`
}

// CreditFromService converts a referral.Credit
func CreditFromService(c *referral.Credit) *Credit {
	if c == nil {
		return nil
	}
	return &Credit{
		ReferrerID:     string(c.ReferrerID),
		InviteBonus:    c.InviteBonus,
		BatchBonus:     c.BatchBonus,
		Amount:         c.Amount(),
		TotalReferrals: c.TotalReferrals,
	}
}

// StartResponse is the response for replaying a start command
type StartResponse struct {
	Player     Player  `json:"player"`
	Created    bool    `json:"created"`
	Attributed bool    `json:"attributed"`
	Credit     *Credit `json:"credit,omitempty"`
}

// StartResponseFromOutcome converts an onboarding.Outcome
func StartResponseFromOutcome(o *onboarding.Outcome) StartResponse {
	return StartResponse{
		Player:     PlayerFromModel(o.Player),
		Created:    o.Created,
		Attributed: o.Attributed,
		Credit:     CreditFromService(o.Credit),
	}
}

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}

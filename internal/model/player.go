package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Default game state for a freshly created player
const (
	DefaultClickPower = 1
	DefaultEnergy     = 500
	DefaultMaxEnergy  = 500
)

// Player is the persisted record for one participant.
// Counters and the friend set are only ever grown by referral credits.
type Player struct {
	ID          PlayerID `json:"id"`
	Username    string   `json:"username,omitempty"`
	DisplayName string   `json:"display_name"`
	AvatarURL   string   `json:"avatar_url,omitempty"`

	TokenBalance int64     `json:"token_balance"`
	ClickPower   int       `json:"click_power"`
	Energy       int       `json:"energy"`
	MaxEnergy    int       `json:"max_energy"`
	LastClickAt  time.Time `json:"last_click_at"`

	ReferredBy      PlayerID   `json:"referred_by,omitempty"`
	TotalReferrals  int        `json:"total_referrals"`
	ReferralRewards int64      `json:"referral_rewards"`
	Friends         []PlayerID `json:"friends"`
	// ReferralSettled is set once the referrer credit for ReferredBy has
	// landed or the referrer was found missing
	ReferralSettled bool `json:"referral_settled,omitempty"`

	// Version is bumped by the store on every successful write
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds the identity fields an arriving player presents
type Profile struct {
	Username  string
	FirstName string
	LastName  string
}

// DisplayNameFor derives a display name from profile name fields,
// falling back to a name built from the player id.
func DisplayNameFor(id PlayerID, p Profile) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{p.FirstName, p.LastName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Player %s", id)
	}
	return strings.Join(parts, " ")
}

// NewPlayer constructs a first-time player record with zeroed counters.
// A referrer equal to the player's own id is dropped.
func NewPlayer(id PlayerID, profile Profile, avatarURL string, referredBy PlayerID, now time.Time) (*Player, error) {
	if id == "" {
		return nil, ErrInvalidPlayer
	}
	if referredBy == id {
		referredBy = ""
	}

	username := ""
	if profile.Username != "" {
		username = "@" + strings.TrimPrefix(profile.Username, "@")
	}

	return &Player{
		ID:              id,
		Username:        username,
		DisplayName:     DisplayNameFor(id, profile),
		AvatarURL:       avatarURL,
		TokenBalance:    0,
		ClickPower:      DefaultClickPower,
		Energy:          DefaultEnergy,
		MaxEnergy:       DefaultMaxEnergy,
		LastClickAt:     now,
		ReferredBy:      referredBy,
		TotalReferrals:  0,
		ReferralRewards: 0,
		Friends:         []PlayerID{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// HasReferrer reports whether the player's referrer has been fixed
func (p *Player) HasReferrer() bool {
	return p.ReferredBy != ""
}

// HasFriend reports whether id has already been credited to this player
func (p *Player) HasFriend(id PlayerID) bool {
	return slices.Contains(p.Friends, id)
}

// AddFriend records id as a referred friend and keeps TotalReferrals in step.
// Returns false if id was already present.
func (p *Player) AddFriend(id PlayerID) bool {
	if p.HasFriend(id) {
		return false
	}
	p.Friends = append(p.Friends, id)
	p.TotalReferrals = len(p.Friends)
	return true
}

// Clone returns a deep copy so mutations never leak into shared state
func (p *Player) Clone() *Player {
	c := *p
	c.Friends = slices.Clone(p.Friends)
	if c.Friends == nil {
		c.Friends = []PlayerID{}
	}
	return &c
}

// Mutation changes a player record in place. Returning an error aborts the
// update without writing; ErrConditionFailed signals a predicate that no
// longer holds.
type Mutation func(p *Player) error

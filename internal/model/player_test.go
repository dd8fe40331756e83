package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestNewPlayerZeroesCounters(t *testing.T) {
	p, err := NewPlayer("42", Profile{FirstName: "Ada", LastName: "Lovelace", Username: "ada"}, "https://img/a.png", "7", now)
	require.NoError(t, err)

	assert.Equal(t, PlayerID("42"), p.ID)
	assert.Equal(t, "Ada Lovelace", p.DisplayName)
	assert.Equal(t, "@ada", p.Username)
	assert.Equal(t, PlayerID("7"), p.ReferredBy)
	assert.Zero(t, p.TokenBalance)
	assert.Zero(t, p.TotalReferrals)
	assert.Zero(t, p.ReferralRewards)
	assert.Empty(t, p.Friends)
	assert.NotNil(t, p.Friends)
	assert.Equal(t, DefaultClickPower, p.ClickPower)
	assert.Equal(t, DefaultEnergy, p.Energy)
	assert.Equal(t, DefaultMaxEnergy, p.MaxEnergy)
	assert.Equal(t, now, p.CreatedAt)
}

func TestNewPlayerDropsSelfReferral(t *testing.T) {
	p, err := NewPlayer("42", Profile{}, "", "42", now)
	require.NoError(t, err)
	assert.False(t, p.HasReferrer())
}

func TestNewPlayerRejectsEmptyID(t *testing.T) {
	_, err := NewPlayer("", Profile{}, "", "", now)
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "Player 42", DisplayNameFor("42", Profile{FirstName: "  "}))
	assert.Equal(t, "Ada", DisplayNameFor("42", Profile{FirstName: "Ada"}))
	assert.Equal(t, "Lovelace", DisplayNameFor("42", Profile{LastName: "Lovelace"}))
}

func TestAddFriendIsIdempotent(t *testing.T) {
	p, _ := NewPlayer("1", Profile{}, "", "", now)

	assert.True(t, p.AddFriend("2"))
	assert.False(t, p.AddFriend("2"))
	assert.True(t, p.AddFriend("3"))

	assert.Equal(t, []PlayerID{"2", "3"}, p.Friends)
	assert.Equal(t, 2, p.TotalReferrals)
}

func TestCloneIsDeep(t *testing.T) {
	p, _ := NewPlayer("1", Profile{}, "", "", now)
	p.AddFriend("2")

	c := p.Clone()
	c.AddFriend("3")

	assert.Len(t, p.Friends, 1)
	assert.Len(t, c.Friends, 2)
}

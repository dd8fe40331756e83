package referral

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/eaglezone/eaglezone-bot/internal/dependencies/mocks"
	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/storage/memory"
)

func TestComputeBonus(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		previous int
		batch    int64
	}{
		{0, 0},
		{8, 0},
		{9, 10000},
		{10, 0},
		{18, 0},
		{19, 10000},
		{29, 10000},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d->%d", tt.previous, tt.previous+1), func(t *testing.T) {
			invite, batch := ComputeBonus(cfg, tt.previous)
			assert.Equal(t, int64(500), invite)
			assert.Equal(t, tt.batch, batch)
		})
	}
}

func TestComputeBonusWithoutBatches(t *testing.T) {
	invite, batch := ComputeBonus(Config{InviteBonus: 100}, 9)
	assert.Equal(t, int64(100), invite)
	assert.Zero(t, batch)
}

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

func (s *ServiceSuite) createReferrer(id model.PlayerID, friends int) {
	p, err := model.NewPlayer(id, model.Profile{}, "", "", s.clock.Now())
	s.Require().NoError(err)
	for i := 0; i < friends; i++ {
		p.AddFriend(model.PlayerID(fmt.Sprintf("old-%d", i)))
	}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, p))
}

func (s *ServiceSuite) TestApplyCreditsInviteBonus() {
	s.createReferrer("A", 0)
	s.clock.Advance(time.Minute)

	credit, err := s.service.Apply(s.ctx, "A", "B")
	s.Require().NoError(err)
	s.Equal(int64(500), credit.Amount())
	s.Equal(1, credit.TotalReferrals)

	a, err := s.storage.GetPlayer(s.ctx, "A")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"B"}, a.Friends)
	s.Equal(1, a.TotalReferrals)
	s.Equal(int64(500), a.ReferralRewards)
	s.Equal(int64(500), a.TokenBalance)
	s.Equal(s.clock.Now(), a.UpdatedAt)
}

func (s *ServiceSuite) TestApplyNinthToTenthAddsBatchBonus() {
	s.createReferrer("A", 9)

	credit, err := s.service.Apply(s.ctx, "A", "B")
	s.Require().NoError(err)
	s.Equal(int64(10000), credit.BatchBonus)
	s.Equal(int64(10500), credit.Amount())

	a, _ := s.storage.GetPlayer(s.ctx, "A")
	s.Equal(10, a.TotalReferrals)
	s.Equal(int64(10500), a.ReferralRewards)
	s.Equal(int64(10500), a.TokenBalance)
}

func (s *ServiceSuite) TestApplyEighthToNinthAddsInviteOnly() {
	s.createReferrer("A", 8)

	credit, err := s.service.Apply(s.ctx, "A", "B")
	s.Require().NoError(err)
	s.Zero(credit.BatchBonus)
	s.Equal(int64(500), credit.Amount())
}

func (s *ServiceSuite) TestApplyIsIdempotentPerFriend() {
	s.createReferrer("A", 0)

	_, err := s.service.Apply(s.ctx, "A", "B")
	s.Require().NoError(err)

	_, err = s.service.Apply(s.ctx, "A", "B")
	s.ErrorIs(err, ErrAlreadyCredited)
	s.ErrorIs(err, model.ErrConditionFailed)

	a, _ := s.storage.GetPlayer(s.ctx, "A")
	s.Equal(1, a.TotalReferrals)
	s.Equal(int64(500), a.ReferralRewards)
	s.Equal(int64(500), a.TokenBalance)
}

func (s *ServiceSuite) TestApplyMissingReferrer() {
	_, err := s.service.Apply(s.ctx, "ghost", "B")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestApplyRejectsSelfReferral() {
	s.createReferrer("A", 0)

	_, err := s.service.Apply(s.ctx, "A", "A")
	s.ErrorIs(err, ErrSelfReferral)

	a, _ := s.storage.GetPlayer(s.ctx, "A")
	s.Zero(a.TotalReferrals)
}

func (s *ServiceSuite) TestConcurrentCreditsBothLand() {
	s.createReferrer("A", 9)

	var wg sync.WaitGroup
	credits := make([]*Credit, 2)
	for i, friend := range []model.PlayerID{"B", "C"} {
		wg.Add(1)
		go func(i int, friend model.PlayerID) {
			defer wg.Done()
			c, err := s.service.Apply(s.ctx, "A", friend)
			s.NoError(err)
			credits[i] = c
		}(i, friend)
	}
	wg.Wait()

	a, _ := s.storage.GetPlayer(s.ctx, "A")
	s.Equal(11, a.TotalReferrals)
	s.Contains(a.Friends, model.PlayerID("B"))
	s.Contains(a.Friends, model.PlayerID("C"))

	s.Require().NotNil(credits[0])
	s.Require().NotNil(credits[1])
	sum := credits[0].Amount() + credits[1].Amount()
	s.Equal(int64(500+500+10000), sum)
	s.Equal(sum, a.ReferralRewards)
	s.Equal(sum, a.TokenBalance)
}

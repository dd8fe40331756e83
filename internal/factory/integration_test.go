package factory

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/eaglezone/eaglezone-bot/internal/dependencies/mocks"
	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/services/onboarding"
	"github.com/eaglezone/eaglezone-bot/internal/services/referral"
	"github.com/eaglezone/eaglezone-bot/internal/storage"
	redisstorage "github.com/eaglezone/eaglezone-bot/internal/storage/redis"
	sqlitestorage "github.com/eaglezone/eaglezone-bot/internal/storage/sqlite"
	"github.com/eaglezone/eaglezone-bot/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	newStore  func(t *testing.T) storage.PlayerStore
	app       *App
	messenger *mocks.MockMessenger
	ctx       context.Context
}

func TestIntegrationMemory(t *testing.T) {
	suite.Run(t, &IntegrationSuite{})
}

func TestIntegrationRedis(t *testing.T) {
	suite.Run(t, &IntegrationSuite{newStore: func(t *testing.T) storage.PlayerStore {
		mini := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
		return redisstorage.NewWithClient(client, redisstorage.DefaultConfig())
	}})
}

func TestIntegrationSQLite(t *testing.T) {
	suite.Run(t, &IntegrationSuite{newStore: func(t *testing.T) storage.PlayerStore {
		st, err := sqlitestorage.New(filepath.Join(t.TempDir(), "players.db"))
		require.NoError(t, err)
		return st
	}})
}

func (s *IntegrationSuite) SetupTest() {
	s.ctx = context.Background()
	if s.newStore == nil {
		test := NewTestApp()
		s.app = test.App
		s.messenger = test.MockMessenger
		return
	}

	s.messenger = mocks.NewMockMessenger()
	s.app = newWithDependencies(
		s.newStore(s.T()),
		mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		s.messenger,
		mocks.NewMockAvatarResolver(),
		referral.DefaultConfig(),
		onboarding.Config{WebAppURL: "https://game.test", BotUsername: TestBotUsername},
		testutil.NopLogger(),
	)
}

func (s *IntegrationSuite) TearDownTest() {
	_ = s.app.Close()
}

func (s *IntegrationSuite) start(id, token string) *onboarding.Outcome {
	outcome, err := s.app.OnboardingService.HandleStart(s.ctx, onboarding.StartEvent{
		PlayerID:      model.PlayerID(id),
		Profile:       model.Profile{FirstName: id},
		ReferralToken: token,
	})
	s.Require().NoError(err)
	return outcome
}

func (s *IntegrationSuite) player(id string) *model.Player {
	p, err := s.app.Storage.GetPlayer(s.ctx, model.PlayerID(id))
	s.Require().NoError(err)
	return p
}

// Test: fresh store, A without token, B referred by A
func (s *IntegrationSuite) TestReferralScenario() {
	s.start("A", "")
	a := s.player("A")
	s.False(a.HasReferrer())
	s.Zero(a.TotalReferrals)
	s.Zero(a.ReferralRewards)

	s.start("B", referral.Token("A"))

	b := s.player("B")
	s.Equal(model.PlayerID("A"), b.ReferredBy)

	a = s.player("A")
	s.Equal(1, a.TotalReferrals)
	s.Equal([]model.PlayerID{"B"}, a.Friends)
	s.Equal(int64(500), a.ReferralRewards)
	s.Equal(int64(500), a.TokenBalance)

	// Replay changes nothing
	s.start("B", referral.Token("A"))
	a = s.player("A")
	s.Equal(1, a.TotalReferrals)
	s.Equal(int64(500), a.ReferralRewards)

	s.Len(s.messenger.SentTo("A"), 2)
	s.Len(s.messenger.SentTo("B"), 2)
}

// Test: concurrent arrivals against one referrer across the tenth-friend boundary
func (s *IntegrationSuite) TestConcurrentCreditsAcrossBatchBoundary() {
	s.start("A", "")
	for i := 0; i < 8; i++ {
		s.start(fmt.Sprintf("early-%d", i), referral.Token("A"))
	}

	var wg sync.WaitGroup
	for _, id := range []string{"late-1", "late-2", "late-3"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.app.OnboardingService.HandleStart(s.ctx, onboarding.StartEvent{
				PlayerID:      model.PlayerID(id),
				ReferralToken: referral.Token("A"),
			})
			s.NoError(err)
		}(id)
	}
	wg.Wait()

	a := s.player("A")
	s.Equal(11, a.TotalReferrals)
	s.Len(a.Friends, 11)
	s.Equal(int64(11*500+10000), a.ReferralRewards)
	s.Equal(a.ReferralRewards, a.TokenBalance)
}

// Test: a referrer that registers after a dangling signup is never credited by replays
func (s *IntegrationSuite) TestDanglingReferrerNotCreditedAfterRegistering() {
	s.start("B", referral.Token("A"))
	s.True(s.player("B").ReferralSettled)

	s.start("A", "")
	s.start("B", referral.Token("A"))

	a := s.player("A")
	s.Zero(a.TotalReferrals)
	s.Zero(a.TokenBalance)
	s.Empty(a.Friends)
	s.Len(s.messenger.SentTo("A"), 1)
}

// Package storagetest holds the behaviour every PlayerStore backend must share.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/storage"
)

// Suite runs the PlayerStore contract against the store built by NewStore
type Suite struct {
	suite.Suite
	NewStore func() storage.PlayerStore

	Store storage.PlayerStore
	Ctx   context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) SetupTest() {
	s.Store = s.NewStore()
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Store != nil {
		_ = s.Store.Close()
	}
}

func (s *Suite) newPlayer(id model.PlayerID) *model.Player {
	p, err := model.NewPlayer(id, model.Profile{FirstName: "Test"}, "https://avatar/" + string(id), "", baseTime)
	s.Require().NoError(err)
	return p
}

func (s *Suite) TestCreateAndGetPlayer() {
	p := s.newPlayer("1")
	p.ReferredBy = "9"

	s.Require().NoError(s.Store.CreatePlayer(s.Ctx, p))
	s.Equal(int64(1), p.Version)

	got, err := s.Store.GetPlayer(s.Ctx, "1")
	s.Require().NoError(err)
	s.Equal(p.ID, got.ID)
	s.Equal("Test", got.DisplayName)
	s.Equal(model.PlayerID("9"), got.ReferredBy)
	s.Equal(int64(1), got.Version)
	s.Empty(got.Friends)
	s.True(got.CreatedAt.Equal(baseTime))
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Store.GetPlayer(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestCreatePlayerTwiceFails() {
	s.Require().NoError(s.Store.CreatePlayer(s.Ctx, s.newPlayer("1")))

	dup := s.newPlayer("1")
	dup.DisplayName = "Impostor"
	s.ErrorIs(s.Store.CreatePlayer(s.Ctx, dup), model.ErrPlayerExists)

	got, err := s.Store.GetPlayer(s.Ctx, "1")
	s.Require().NoError(err)
	s.Equal("Test", got.DisplayName)
}

func (s *Suite) TestUpdatePlayerAppliesMutation() {
	s.Require().NoError(s.Store.CreatePlayer(s.Ctx, s.newPlayer("1")))

	updated, err := s.Store.UpdatePlayer(s.Ctx, "1", func(p *model.Player) error {
		p.AddFriend("2")
		p.TokenBalance += 500
		return nil
	})
	s.Require().NoError(err)
	s.Equal(int64(2), updated.Version)

	got, err := s.Store.GetPlayer(s.Ctx, "1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"2"}, got.Friends)
	s.Equal(1, got.TotalReferrals)
	s.Equal(int64(500), got.TokenBalance)
	s.Equal(int64(2), got.Version)
}

func (s *Suite) TestUpdatePlayerNotFound() {
	_, err := s.Store.UpdatePlayer(s.Ctx, "missing", func(p *model.Player) error { return nil })
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestUpdatePlayerAbortWritesNothing() {
	s.Require().NoError(s.Store.CreatePlayer(s.Ctx, s.newPlayer("1")))

	_, err := s.Store.UpdatePlayer(s.Ctx, "1", func(p *model.Player) error {
		p.TokenBalance = 1_000_000
		return model.ErrConditionFailed
	})
	s.ErrorIs(err, model.ErrConditionFailed)

	got, err := s.Store.GetPlayer(s.Ctx, "1")
	s.Require().NoError(err)
	s.Zero(got.TokenBalance)
	s.Equal(int64(1), got.Version)
}

func (s *Suite) TestUpdatePlayerCannotChangeID() {
	s.Require().NoError(s.Store.CreatePlayer(s.Ctx, s.newPlayer("1")))

	updated, err := s.Store.UpdatePlayer(s.Ctx, "1", func(p *model.Player) error {
		p.ID = "2"
		return nil
	})
	s.Require().NoError(err)
	s.Equal(model.PlayerID("1"), updated.ID)

	_, err = s.Store.GetPlayer(s.Ctx, "2")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestConcurrentUpdatesAreNotLost() {
	s.Require().NoError(s.Store.CreatePlayer(s.Ctx, s.newPlayer("ref")))

	const writers = 64
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			friend := model.PlayerID(fmt.Sprintf("friend-%d", i))
			_, err := s.Store.UpdatePlayer(s.Ctx, "ref", func(p *model.Player) error {
				if !p.AddFriend(friend) {
					return model.ErrConditionFailed
				}
				p.TokenBalance += 500
				return nil
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}

	got, err := s.Store.GetPlayer(s.Ctx, "ref")
	s.Require().NoError(err)
	s.Len(got.Friends, writers)
	s.Equal(writers, got.TotalReferrals)
	s.Equal(int64(writers*500), got.TokenBalance)
}

func (s *Suite) TestStoredRecordIsNotAliased() {
	p := s.newPlayer("1")
	s.Require().NoError(s.Store.CreatePlayer(s.Ctx, p))
	p.TokenBalance = 99

	got, err := s.Store.GetPlayer(s.Ctx, "1")
	s.Require().NoError(err)
	s.Zero(got.TokenBalance)

	got.Friends = append(got.Friends, "x")
	again, err := s.Store.GetPlayer(s.Ctx, "1")
	s.Require().NoError(err)
	s.Empty(again.Friends)
}


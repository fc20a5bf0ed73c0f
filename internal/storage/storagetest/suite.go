// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/storage"
)

// Suite runs the common storage checks. Backends embed it and set Storage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:        "player-1",
		Name:      "Alice",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	err := s.Storage.SavePlayer(s.Ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.Name, retrieved.Name)
	s.False(retrieved.IsBot)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayer() {
	player := &model.Player{ID: "player-1", Name: "Alice", CreatedAt: time.Now()}
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, player))

	err := s.Storage.DeletePlayer(s.Ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.Storage.GetPlayer(s.Ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *Suite) saveRegistered(id model.PlayerID, name string) *model.RegisteredPlayer {
	now := time.Now().UTC().Truncate(time.Millisecond)
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: id, Name: name, CreatedAt: now}))
	rp := &model.RegisteredPlayer{
		PlayerID:     id,
		Name:         name,
		PasswordHash: "hash-" + name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.Require().NoError(s.Storage.SaveRegisteredPlayer(s.Ctx, rp))
	return rp
}

func (s *Suite) TestSaveAndGetRegisteredPlayer() {
	rp := s.saveRegistered("player-1", "alice")

	retrieved, err := s.Storage.GetRegisteredPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(rp.Name, retrieved.Name)
	s.Equal(rp.PasswordHash, retrieved.PasswordHash)
}

func (s *Suite) TestGetRegisteredPlayerByName() {
	s.saveRegistered("player-1", "alice")

	retrieved, err := s.Storage.GetRegisteredPlayerByName(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.PlayerID)
}

func (s *Suite) TestGetRegisteredPlayerByNameIsCaseSensitive() {
	s.saveRegistered("player-1", "alice")

	_, err := s.Storage.GetRegisteredPlayerByName(s.Ctx, "Alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestGetRegisteredPlayerByNameNotFound() {
	_, err := s.Storage.GetRegisteredPlayerByName(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Winners ledger tests

func (s *Suite) TestWinsStartAtZero() {
	wins, err := s.Storage.GetWins(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, wins)

	entries, err := s.Storage.ListWins(s.Ctx)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *Suite) TestIncrementWins() {
	wins, err := s.Storage.IncrementWins(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, wins)

	wins, err = s.Storage.IncrementWins(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(2, wins)

	_, err = s.Storage.IncrementWins(s.Ctx, "bob")
	s.Require().NoError(err)

	entries, err := s.Storage.ListWins(s.Ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.WinnerEntry{{Name: "alice", Wins: 2}, {Name: "bob", Wins: 1}}, entries)
}

func (s *Suite) TestIncrementWinsConcurrently() {
	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Storage.IncrementWins(s.Ctx, "alice")
		}()
	}
	wg.Wait()

	wins, err := s.Storage.GetWins(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(n, wins)
}

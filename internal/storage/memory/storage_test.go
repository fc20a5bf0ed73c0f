package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.Storage = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestReturnedPlayerIsACopy() {
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, &model.Player{ID: "player-1", Name: "Alice"}))

	retrieved, err := s.storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	retrieved.Name = "Mallory"

	again, err := s.storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alice", again.Name)
}

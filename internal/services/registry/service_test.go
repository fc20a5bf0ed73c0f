package registry

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/seabattle-go/internal/dependencies/mocks"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/storage/memory"
	"github.com/mcoot/seabattle-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, Config{BcryptCost: bcrypt.MinCost}, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterCreatesPlayer() {
	s.random.QueueUUID("player-1")

	player, created, err := s.service.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	s.True(created)
	s.Equal(model.PlayerID("player-1"), player.ID)
	s.Equal("alice", player.Name)
	s.False(player.IsBot)
}

func (s *ServiceSuite) TestRegisterHashesPassword() {
	_, _, err := s.service.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	rp, err := s.storage.GetRegisteredPlayerByName(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(rp.PasswordHash)
	s.NotEqual("secret", rp.PasswordHash)
}

func (s *ServiceSuite) TestRegisterAgainWithSamePasswordReturnsSamePlayer() {
	first, _, err := s.service.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	second, created, err := s.service.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)
	s.False(created)
	s.Equal(first.ID, second.ID)
}

func (s *ServiceSuite) TestRegisterAgainWithWrongPasswordFails() {
	_, _, err := s.service.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	_, _, err = s.service.Register(s.ctx, "alice", "guess")
	s.ErrorIs(err, model.ErrInvalidCredential)
}

func (s *ServiceSuite) TestRegisterNamesAreCaseSensitive() {
	alice, _, err := s.service.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	other, created, err := s.service.Register(s.ctx, "Alice", "different")
	s.Require().NoError(err)
	s.True(created)
	s.NotEqual(alice.ID, other.ID)
}

func (s *ServiceSuite) TestRegisterRejectsEmptyName() {
	_, _, err := s.service.Register(s.ctx, "  ", "secret")
	s.ErrorIs(err, model.ErrInvalidCredential)

	_, _, err = s.service.Register(s.ctx, "alice", "")
	s.ErrorIs(err, model.ErrInvalidCredential)
}

func (s *ServiceSuite) TestRegisterRejectsPasswordTooLongToHash() {
	_, _, err := s.service.Register(s.ctx, "long", strings.Repeat("p", 80))
	s.ErrorIs(err, model.ErrInvalidCredential)

	_, _, err = s.service.Register(s.ctx, "long", strings.Repeat("p", MaxPasswordBytes))
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterKeepsNameExact() {
	_, _, err := s.service.Register(s.ctx, "alice ", "secret")
	s.ErrorIs(err, model.ErrInvalidCredential)

	_, _, err = s.service.Register(s.ctx, " alice", "secret")
	s.ErrorIs(err, model.ErrInvalidCredential)

	alice, _, err := s.service.Register(s.ctx, "alice smith", "secret")
	s.Require().NoError(err)
	s.Equal("alice smith", alice.Name)
}

func (s *ServiceSuite) TestConcurrentRegisterCreatesOnePlayer() {
	var wg sync.WaitGroup
	ids := make([]model.PlayerID, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, _, err := s.service.Register(s.ctx, "alice", "secret")
			if err == nil {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		s.Equal(ids[0], id)
	}
}

// Login tests

func (s *ServiceSuite) TestLoginBindsConnection() {
	session, _, err := s.service.Login(s.ctx, "conn-1", "alice", "secret")
	s.Require().NoError(err)

	s.Equal("conn-1", session.ConnID)
	s.True(s.service.IsOnline(session.Player.ID))

	found, err := s.service.SessionFor("conn-1")
	s.Require().NoError(err)
	s.Equal(session.Player.ID, found.Player.ID)
}

func (s *ServiceSuite) TestLoginRejectsSecondConnection() {
	_, _, err := s.service.Login(s.ctx, "conn-1", "alice", "secret")
	s.Require().NoError(err)

	_, _, err = s.service.Login(s.ctx, "conn-2", "alice", "secret")
	s.ErrorIs(err, model.ErrPlayerAlreadyOnline)
}

func (s *ServiceSuite) TestLoginSameConnectionIsIdempotent() {
	first, _, err := s.service.Login(s.ctx, "conn-1", "alice", "secret")
	s.Require().NoError(err)

	second, displaced, err := s.service.Login(s.ctx, "conn-1", "alice", "secret")
	s.Require().NoError(err)
	s.Equal(first.Player.ID, second.Player.ID)
	s.Nil(displaced)
	s.Equal(1, s.service.OnlineCount())
}

func (s *ServiceSuite) TestLoginSwitchingNameReleasesOldPlayer() {
	alice, _, err := s.service.Login(s.ctx, "conn-1", "alice", "secret")
	s.Require().NoError(err)

	_, displaced, err := s.service.Login(s.ctx, "conn-1", "bob", "secret")
	s.Require().NoError(err)
	s.Require().NotNil(displaced)
	s.Equal(alice.Player.ID, displaced.ID)

	s.False(s.service.IsOnline(alice.Player.ID))
	s.Equal(1, s.service.OnlineCount())
}

func (s *ServiceSuite) TestLogoutReleasesPlayer() {
	session, _, err := s.service.Login(s.ctx, "conn-1", "alice", "secret")
	s.Require().NoError(err)

	released := s.service.Logout("conn-1")
	s.Require().NotNil(released)
	s.Equal(session.Player.ID, released.Player.ID)
	s.False(s.service.IsOnline(session.Player.ID))

	_, err = s.service.SessionFor("conn-1")
	s.ErrorIs(err, model.ErrNotRegistered)

	// Name is free to log in from another connection
	_, _, err = s.service.Login(s.ctx, "conn-2", "alice", "secret")
	s.NoError(err)
}

func (s *ServiceSuite) TestLogoutUnknownConnection() {
	s.Nil(s.service.Logout("conn-unknown"))
}

func (s *ServiceSuite) TestGetPlayer() {
	session, _, err := s.service.Login(s.ctx, "conn-1", "alice", "secret")
	s.Require().NoError(err)

	player, err := s.service.GetPlayer(s.ctx, session.Player.ID)
	s.Require().NoError(err)
	s.Equal("alice", player.Name)

	_, err = s.service.GetPlayer(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

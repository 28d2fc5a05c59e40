package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/userdash/userdash/internal/dependencies/mocks"
	sessionmemory "github.com/userdash/userdash/internal/session/memory"
	storagememory "github.com/userdash/userdash/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	users    *storagememory.Store
	sessions *sessionmemory.Store
	clock    *mocks.MockClock
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.users = storagememory.New()
	s.sessions = sessionmemory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.users, s.sessions, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	user, err := s.service.Register(s.ctx, "alice", "alice@example.com", "password123")
	s.Require().NoError(err)

	s.Equal("alice", user.Username)
	s.Equal("alice@example.com", user.Email)
	s.NotZero(user.ID)
}

func (s *ServiceSuite) TestRegisterHashesPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")

	user, err := s.users.FindByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(user.PasswordHash)
	s.NotEqual("password123", user.PasswordHash) // Should be hashed
}

func (s *ServiceSuite) TestRegisterDoesNotCreateSession() {
	user, err := s.service.Register(s.ctx, "alice", "alice@example.com", "password123")
	s.Require().NoError(err)
	s.NotNil(user)

	// Logging in is a separate step
	_, err = s.service.Login(s.ctx, "alice", "password123")
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterFailsIfUsernameExists() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")

	_, err := s.service.Register(s.ctx, "alice", "other@example.com", "different")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestRegisterFailsIfEmailExists() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")

	_, err := s.service.Register(s.ctx, "alice2", "alice@example.com", "different")
	s.ErrorIs(err, ErrEmailExists)
}

func (s *ServiceSuite) TestRegisterFailureLeavesNoUser() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")
	_, _ = s.service.Register(s.ctx, "alice2", "alice@example.com", "different")

	_, err := s.users.FindByUsername(s.ctx, "alice2")
	s.Error(err)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")

	sess, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEmpty(sess.Token)
	s.Equal("alice", sess.Username)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginErrorsDoNotDistinguishCause() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")

	_, wrongPassErr := s.service.Login(s.ctx, "alice", "wrongpassword")
	_, unknownUserErr := s.service.Login(s.ctx, "nobody", "password123")

	s.Equal(wrongPassErr, unknownUserErr)
}

func (s *ServiceSuite) TestLoginSessionExpiryMatchesConfig() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")

	sess, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.Equal(s.clock.Now(), sess.CreatedAt)
	s.Equal(s.clock.Now().Add(24*time.Hour), sess.ExpiresAt)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")
	sess, _ := s.service.Login(s.ctx, "alice", "password123")

	validated, err := s.service.ValidateSession(s.ctx, sess.Token)
	s.Require().NoError(err)
	s.Equal(sess.Token, validated.Token)
	s.Equal("alice", validated.Username)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession(s.ctx, "invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")
	sess, _ := s.service.Login(s.ctx, "alice", "password123")

	// Advance time past expiration
	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(s.ctx, sess.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionRemovesExpiredSession() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")
	sess, _ := s.service.Login(s.ctx, "alice", "password123")

	s.clock.Advance(25 * time.Hour)
	_, _ = s.service.ValidateSession(s.ctx, sess.Token)

	// Expired session should be gone from the store
	_, err := s.sessions.Get(s.ctx, sess.Token)
	s.Error(err)
}

// Logout tests

func (s *ServiceSuite) TestLogoutRemovesSession() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")
	sess, _ := s.service.Login(s.ctx, "alice", "password123")

	err := s.service.Logout(s.ctx, sess.Token)
	s.Require().NoError(err)

	_, err = s.service.ValidateSession(s.ctx, sess.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestLogoutNoopForUnknownToken() {
	err := s.service.Logout(s.ctx, "unknown_token")
	s.NoError(err)
}

func (s *ServiceSuite) TestLogoutOnlyAffectsOneSession() {
	_, _ = s.service.Register(s.ctx, "alice", "alice@example.com", "password123")
	sess1, _ := s.service.Login(s.ctx, "alice", "password123")
	sess2, _ := s.service.Login(s.ctx, "alice", "password123")

	_ = s.service.Logout(s.ctx, sess1.Token)

	_, err := s.service.ValidateSession(s.ctx, sess2.Token)
	s.NoError(err)
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/userdash/userdash/internal/model"
	"github.com/userdash/userdash/internal/session"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *StoreSuite) newSession(token string) *session.Session {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &session.Session{
		Token:     token,
		UserID:    1,
		Username:  "alice",
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

func (s *StoreSuite) TestSaveAndGet() {
	sess := s.newSession("sess_abc")

	err := s.store.Save(s.ctx, sess)
	s.Require().NoError(err)

	retrieved, err := s.store.Get(s.ctx, "sess_abc")
	s.Require().NoError(err)
	s.Equal(sess.Token, retrieved.Token)
	s.Equal(sess.Username, retrieved.Username)
	s.Equal(sess.ExpiresAt, retrieved.ExpiresAt)
}

func (s *StoreSuite) TestGetNotFound() {
	_, err := s.store.Get(s.ctx, "sess_missing")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StoreSuite) TestDelete() {
	_ = s.store.Save(s.ctx, s.newSession("sess_abc"))

	err := s.store.Delete(s.ctx, "sess_abc")
	s.Require().NoError(err)

	_, err = s.store.Get(s.ctx, "sess_abc")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StoreSuite) TestDeleteUnknownTokenNoop() {
	err := s.store.Delete(s.ctx, "sess_missing")
	s.NoError(err)
}

func (s *StoreSuite) TestGetReturnsCopy() {
	_ = s.store.Save(s.ctx, s.newSession("sess_abc"))

	retrieved, _ := s.store.Get(s.ctx, "sess_abc")
	retrieved.Username = "mutated"

	again, _ := s.store.Get(s.ctx, "sess_abc")
	s.Equal("alice", again.Username)
}

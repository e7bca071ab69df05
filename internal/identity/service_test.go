package identity

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/murmur-social/murmur/internal/store"
)

type ServiceTestSuite struct {
	suite.Suite
	redis *miniredis.Miniredis
	svc   *Service
	ctx   context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.redis = mr

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.svc = NewService(store.NewMemoryStore(), rdb, []byte("test-secret"))
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) TearDownTest() {
	s.redis.Close()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestSignUpIssuesValidSession() {
	session, err := s.svc.SignUp(s.ctx, "alice@example.com", "hunter2hunter2")
	s.Require().NoError(err)
	s.NotEmpty(session.UserID)
	s.NotEmpty(session.Token)
	s.True(session.ExpiresAt.After(time.Now()))

	userID, err := s.svc.ValidateToken(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(session.UserID, userID)
}

func (s *ServiceTestSuite) TestSignUpDuplicateEmail() {
	_, err := s.svc.SignUp(s.ctx, "alice@example.com", "hunter2hunter2")
	s.Require().NoError(err)

	_, err = s.svc.SignUp(s.ctx, "alice@example.com", "different-pass")
	s.ErrorIs(err, ErrUserExists)
}

func (s *ServiceTestSuite) TestSignInChecksPassword() {
	signup, err := s.svc.SignUp(s.ctx, "alice@example.com", "hunter2hunter2")
	s.Require().NoError(err)

	session, err := s.svc.SignIn(s.ctx, "alice@example.com", "hunter2hunter2")
	s.Require().NoError(err)
	s.Equal(signup.UserID, session.UserID)

	_, err = s.svc.SignIn(s.ctx, "alice@example.com", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.svc.SignIn(s.ctx, "nobody@example.com", "hunter2hunter2")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestSignOutRevokesToken() {
	session, err := s.svc.SignUp(s.ctx, "alice@example.com", "hunter2hunter2")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.SignOut(s.ctx, session.Token))

	_, err = s.svc.ValidateToken(s.ctx, session.Token)
	s.ErrorIs(err, ErrTokenInvalid)

	// a fresh sign-in works and its token is independent
	again, err := s.svc.SignIn(s.ctx, "alice@example.com", "hunter2hunter2")
	s.Require().NoError(err)
	_, err = s.svc.ValidateToken(s.ctx, again.Token)
	s.NoError(err)
}

func (s *ServiceTestSuite) TestValidateRejectsGarbage() {
	_, err := s.svc.ValidateToken(s.ctx, "not-a-jwt")
	s.ErrorIs(err, ErrTokenInvalid)
}

func (s *ServiceTestSuite) TestValidateRejectsWrongKey() {
	other := NewService(store.NewMemoryStore(), redis.NewClient(&redis.Options{Addr: s.redis.Addr()}), []byte("other-secret"))
	session, err := other.SignUp(s.ctx, "alice@example.com", "hunter2hunter2")
	s.Require().NoError(err)

	_, err = s.svc.ValidateToken(s.ctx, session.Token)
	s.ErrorIs(err, ErrTokenInvalid)
}

func (s *ServiceTestSuite) TestPasswordResetFlow() {
	_, err := s.svc.SignUp(s.ctx, "alice@example.com", "hunter2hunter2")
	s.Require().NoError(err)

	token, err := s.svc.RequestPasswordReset(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.NotEmpty(token)

	s.Require().NoError(s.svc.ResetPassword(s.ctx, token, "newpassword99"))

	_, err = s.svc.SignIn(s.ctx, "alice@example.com", "hunter2hunter2")
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.svc.SignIn(s.ctx, "alice@example.com", "newpassword99")
	s.NoError(err)

	// tokens are one-time use
	err = s.svc.ResetPassword(s.ctx, token, "thirdpassword")
	s.ErrorIs(err, ErrResetInvalid)
}

func (s *ServiceTestSuite) TestPasswordResetUnknownAccount() {
	_, err := s.svc.RequestPasswordReset(s.ctx, "nobody@example.com")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ServiceTestSuite) TestResetWithBogusToken() {
	err := s.svc.ResetPassword(s.ctx, "bogus", "whatever123")
	s.ErrorIs(err, ErrResetInvalid)
}

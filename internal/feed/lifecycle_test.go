package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/murmur-social/murmur/internal/identity"
	"github.com/murmur-social/murmur/internal/models"
	"github.com/murmur-social/murmur/internal/store"
)

type LifecycleTestSuite struct {
	suite.Suite
	store *store.MemoryStore
	svc   *Service
	lc    *Lifecycle
	ctx   context.Context
}

func (s *LifecycleTestSuite) SetupTest() {
	s.store = store.NewMemoryStore()
	s.svc = NewService(s.store, nil)
	s.lc = NewLifecycle(s.svc, nil)
	s.ctx = context.Background()
}

func TestLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleTestSuite))
}

func (s *LifecycleTestSuite) seedProfile(userID string) {
	s.Require().NoError(s.store.Set(s.ctx, profilesPath, userID, map[string]any{
		"name":      "Alice",
		"bio":       "hi",
		"birthYear": "1990",
	}))
}

func (s *LifecycleTestSuite) seedPost(id string) {
	post := &models.Post{
		PostID:    id,
		Type:      models.PostOriginal,
		Creator:   "alice",
		CreatedAt: time.Now().UTC(),
		OrgPostID: id,
		Original:  &models.OriginalContent{Content: longContent()},
	}
	s.Require().NoError(s.store.Set(s.ctx, postsPath, id, postDoc(post)))
}

func (s *LifecycleTestSuite) TestStartsSignedOut() {
	s.Equal(StateSignedOut, s.lc.State())
	s.Empty(s.lc.UserID())
}

func (s *LifecycleTestSuite) TestSignInWithProfileGoesReady() {
	s.seedProfile("u1")
	s.seedPost("p1")
	s.seedPost("p2")

	err := s.lc.HandleSession(s.ctx, &identity.Session{UserID: "u1"})
	s.Require().NoError(err)

	s.Equal(StateReady, s.lc.State())
	s.Equal("u1", s.lc.UserID())

	// entering ready loaded the first feed page
	s.Len(s.svc.Posts(), 2)
	profile, ok := s.svc.Profile("u1")
	s.True(ok)
	s.Equal("Alice", profile.Name)
}

func (s *LifecycleTestSuite) TestSignInWithoutProfileWaits() {
	s.seedPost("p1")

	err := s.lc.HandleSession(s.ctx, &identity.Session{UserID: "u1"})
	s.Require().NoError(err)

	s.Equal(StateNoProfile, s.lc.State())
	s.Empty(s.svc.Posts(), "the feed must not load before the profile is complete")
}

func (s *LifecycleTestSuite) TestCompleteProfileUnlocksFeed() {
	s.seedPost("p1")
	s.Require().NoError(s.lc.HandleSession(s.ctx, &identity.Session{UserID: "u1"}))
	s.Require().Equal(StateNoProfile, s.lc.State())

	err := s.lc.CompleteProfile(s.ctx, "u1", map[string]any{
		"name": "Alice", "birthYear": "1990",
	})
	s.Require().NoError(err)

	s.Equal(StateReady, s.lc.State())
	s.Len(s.svc.Posts(), 1)

	profile, ok := s.svc.Profile("u1")
	s.True(ok)
	s.Equal("Alice", profile.Name)

	// the profile document was created remotely
	doc, err := s.store.Get(s.ctx, profilesPath, "u1")
	s.Require().NoError(err)
	s.Equal("Alice", doc.Data["name"])
}

func (s *LifecycleTestSuite) TestSignOutClearsEverything() {
	s.seedProfile("u1")
	s.seedPost("p1")
	s.Require().NoError(s.lc.HandleSession(s.ctx, &identity.Session{UserID: "u1"}))
	s.Require().NotEmpty(s.svc.Posts())

	s.Require().NoError(s.lc.HandleSession(s.ctx, nil))

	s.Equal(StateSignedOut, s.lc.State())
	s.Empty(s.lc.UserID())
	s.Empty(s.svc.Posts())
	s.False(s.svc.NoMorePosts())
	_, ok := s.svc.Profile("u1")
	s.False(ok)
}

func (s *LifecycleTestSuite) TestTokenRefreshIsANoop() {
	s.seedProfile("u1")
	s.seedPost("p1")
	s.Require().NoError(s.lc.HandleSession(s.ctx, &identity.Session{UserID: "u1"}))

	s.seedPost("p2")
	s.Require().NoError(s.lc.HandleSession(s.ctx, &identity.Session{UserID: "u1", Token: "refreshed"}))

	// still ready, and no second initial load happened
	s.Equal(StateReady, s.lc.State())
	s.Len(s.svc.Posts(), 1)
}

func (s *LifecycleTestSuite) TestAccountSwitchResetsCaches() {
	s.seedProfile("u1")
	s.seedProfile("u2")
	s.seedPost("p1")
	s.Require().NoError(s.lc.HandleSession(s.ctx, &identity.Session{UserID: "u1"}))
	s.Require().NotEmpty(s.svc.Posts())

	s.Require().NoError(s.lc.HandleSession(s.ctx, &identity.Session{UserID: "u2"}))

	s.Equal(StateReady, s.lc.State())
	s.Equal("u2", s.lc.UserID())
	// the feed reloaded for the new account from page one
	s.Len(s.svc.Posts(), 1)
	_, hasOld := s.svc.Profile("u1")
	s.False(hasOld, "previous account's profile must not survive the switch")
}

func (s *LifecycleTestSuite) TestSessionHolderDrivesLifecycle() {
	s.seedProfile("u1")
	sessions := identity.NewSessionHolder()
	unbind := s.lc.Bind(sessions)
	defer unbind()

	s.Equal(StateSignedOut, s.lc.State())

	sessions.Set(&identity.Session{UserID: "u1"})
	s.Equal(StateReady, s.lc.State())

	sessions.Set(nil)
	s.Equal(StateSignedOut, s.lc.State())
}

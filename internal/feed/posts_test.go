package feed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/murmur-social/murmur/internal/models"
	"github.com/murmur-social/murmur/internal/store"
)

// PostsTestSuite exercises post creation and engagement against the
// in-memory store.
type PostsTestSuite struct {
	suite.Suite
	store *store.MemoryStore
	svc   *Service
	ctx   context.Context
}

func (s *PostsTestSuite) SetupTest() {
	s.store = store.NewMemoryStore()
	s.svc = NewService(s.store, nil)
	s.ctx = context.Background()
}

func TestPostsTestSuite(t *testing.T) {
	suite.Run(t, new(PostsTestSuite))
}

func longContent() string {
	return strings.Repeat("the quick brown fox jumps over the lazy dog ", 5)
}

// seedOriginal writes an original post document directly with an explicit
// creation time
func (s *PostsTestSuite) seedOriginal(id, creator string, createdAt time.Time) {
	post := &models.Post{
		PostID:    id,
		Type:      models.PostOriginal,
		Creator:   creator,
		CreatedAt: createdAt,
		OrgPostID: id,
		Original:  &models.OriginalContent{Content: longContent()},
	}
	s.Require().NoError(s.store.Set(s.ctx, postsPath, id, postDoc(post)))
}

func (s *PostsTestSuite) TestCreatePostPersistsAndCaches() {
	post, err := s.svc.CreatePost(s.ctx, "alice", longContent(), nil)
	s.Require().NoError(err)
	s.Require().NotNil(post)
	s.Equal(models.PostOriginal, post.Type)
	s.Equal(post.PostID, post.OrgPostID)

	doc, err := s.store.Get(s.ctx, postsPath, post.PostID)
	s.Require().NoError(err)
	s.Equal(longContent(), doc.Data["content"])

	cached := s.svc.Post(post.PostID)
	s.Require().NotNil(cached)
	s.Equal("alice", cached.Creator)
	s.Equal(0, cached.Original.Viewers.Len())
}

func (s *PostsTestSuite) TestSharePostKeepsSharersDistinct() {
	org, err := s.svc.CreatePost(s.ctx, "alice", longContent(), nil)
	s.Require().NoError(err)

	first, err := s.svc.SharePost(s.ctx, "bob", org.PostID)
	s.Require().NoError(err)
	second, err := s.svc.SharePost(s.ctx, "bob", org.PostID)
	s.Require().NoError(err)
	s.NotEqual(first.PostID, second.PostID)

	// two shared events accumulate, but bob counts once
	events, err := s.store.Query(s.ctx, eventsPath(org.PostID), eventFilter(models.EventShared))
	s.Require().NoError(err)
	s.Len(events, 2)

	cached := s.svc.Post(org.PostID)
	s.Equal(1, cached.Original.Sharers.Len())
	s.True(cached.Original.Sharers.Contains("bob"))
}

func (s *PostsTestSuite) TestShareOfSharedPostTargetsOriginal() {
	org, err := s.svc.CreatePost(s.ctx, "alice", longContent(), nil)
	s.Require().NoError(err)
	shared, err := s.svc.SharePost(s.ctx, "bob", org.PostID)
	s.Require().NoError(err)

	reshared, err := s.svc.SharePost(s.ctx, "carol", shared.PostID)
	s.Require().NoError(err)

	// the new post references the original, not the share it came through
	s.Equal(org.PostID, reshared.OrgPostID)

	events, err := s.store.Query(s.ctx, eventsPath(org.PostID), eventFilter(models.EventShared))
	s.Require().NoError(err)
	s.Len(events, 2)

	cached := s.svc.Post(org.PostID)
	s.ElementsMatch([]string{"bob", "carol"}, cached.Original.Sharers.Members())
}

func (s *PostsTestSuite) TestViewPostCountsOnce() {
	org, err := s.svc.CreatePost(s.ctx, "alice", longContent(), nil)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.ViewPost(s.ctx, "bob", org.PostID))
	s.Require().NoError(s.svc.ViewPost(s.ctx, "bob", org.PostID))

	events, err := s.store.Query(s.ctx, eventsPath(org.PostID), eventFilter(models.EventViewed))
	s.Require().NoError(err)
	s.Len(events, 1)

	cached := s.svc.Post(org.PostID)
	s.Equal(1, cached.Original.Viewers.Len())
}

func (s *PostsTestSuite) TestSelfViewNeverCounts() {
	org, err := s.svc.CreatePost(s.ctx, "alice", longContent(), nil)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.ViewPost(s.ctx, "alice", org.PostID))

	events, err := s.store.Query(s.ctx, eventsPath(org.PostID))
	s.Require().NoError(err)
	s.Empty(events)
	s.Equal(0, s.svc.Post(org.PostID).Original.Viewers.Len())
}

func (s *PostsTestSuite) TestViewThroughSharedPostCreditsOriginal() {
	org, err := s.svc.CreatePost(s.ctx, "alice", longContent(), nil)
	s.Require().NoError(err)
	shared, err := s.svc.SharePost(s.ctx, "bob", org.PostID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.ViewPost(s.ctx, "carol", shared.PostID))

	// the view lands on the original's log; shared posts own no events
	events, err := s.store.Query(s.ctx, eventsPath(org.PostID), eventFilter(models.EventViewed))
	s.Require().NoError(err)
	s.Len(events, 1)
	s.Equal(0, s.store.Len(eventsPath(shared.PostID)))

	s.True(s.svc.Post(org.PostID).Original.Viewers.Contains("carol"))
}

func (s *PostsTestSuite) TestViewAlreadyRecordedRemotely() {
	// a view recorded in an earlier session is not in the cached set
	s.seedOriginal("p1", "alice", time.Now().UTC())
	_, err := s.svc.LoadPost(s.ctx, "p1", nil)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.ViewPost(s.ctx, "bob", "p1"))

	// wipe the cache, reload, view again
	s.svc.Reset()
	_, err = s.svc.LoadPost(s.ctx, "p1", nil)
	s.Require().NoError(err)
	s.True(s.svc.Post("p1").Original.Viewers.Contains("bob"))

	s.Require().NoError(s.svc.ViewPost(s.ctx, "bob", "p1"))
	events, err := s.store.Query(s.ctx, eventsPath("p1"), eventFilter(models.EventViewed))
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *PostsTestSuite) TestToggleFlagAlternatesStrictly() {
	org, err := s.svc.CreatePost(s.ctx, "alice", longContent(), nil)
	s.Require().NoError(err)

	flagEvents := func() int {
		events, err := s.store.Query(s.ctx, eventsPath(org.PostID), eventFilter(models.EventFlagged))
		s.Require().NoError(err)
		return len(events)
	}

	for i := 0; i < 5; i++ {
		s.Require().NoError(s.svc.ToggleFlagPost(s.ctx, "bob", org.PostID))
		flagged := i%2 == 0
		if flagged {
			s.Equal(1, flagEvents(), "toggle %d", i)
			s.True(s.svc.Post(org.PostID).Original.Flaggers.Contains("bob"))
		} else {
			s.Equal(0, flagEvents(), "toggle %d", i)
			s.False(s.svc.Post(org.PostID).Original.Flaggers.Contains("bob"))
		}
	}
}

func (s *PostsTestSuite) TestFlagsAreIndependentPerUser() {
	org, err := s.svc.CreatePost(s.ctx, "alice", longContent(), nil)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.ToggleFlagPost(s.ctx, "bob", org.PostID))
	s.Require().NoError(s.svc.ToggleFlagPost(s.ctx, "carol", org.PostID))
	s.Require().NoError(s.svc.ToggleFlagPost(s.ctx, "bob", org.PostID))

	cached := s.svc.Post(org.PostID)
	s.ElementsMatch([]string{"carol"}, cached.Original.Flaggers.Members())
}

func (s *PostsTestSuite) TestEngagementOnUncachedPost() {
	err := s.svc.ViewPost(s.ctx, "bob", "nope")
	s.Error(err)
	_, err = s.svc.SharePost(s.ctx, "bob", "nope")
	s.Error(err)
}

func (s *PostsTestSuite) TestLoadPostAbsentIsNotAnError() {
	post, err := s.svc.LoadPost(s.ctx, "missing", nil)
	s.NoError(err)
	s.Nil(post)
	s.Nil(s.svc.Post("missing"))
}

func (s *PostsTestSuite) TestLoadPostDerivesSetsFromEvents() {
	s.seedOriginal("p1", "alice", time.Now().UTC())
	for i, viewer := range []string{"bob", "carol", "bob"} {
		_, err := s.store.Add(s.ctx, eventsPath("p1"), eventDoc(models.EngagementEvent{
			Type:      models.EventViewed,
			OrgPostID: "p1",
			Actor:     viewer,
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
		s.Require().NoError(err)
	}

	post, err := s.svc.LoadPost(s.ctx, "p1", nil)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"bob", "carol"}, post.Original.Viewers.Members())
}

func (s *PostsTestSuite) TestLoadSharedPostLoadsOriginalFirst() {
	s.seedOriginal("org1", "alice", time.Now().UTC().Add(-time.Hour))
	shared := &models.Post{
		PostID:    "sh1",
		Type:      models.PostShared,
		Creator:   "bob",
		CreatedAt: time.Now().UTC(),
		OrgPostID: "org1",
	}
	s.Require().NoError(s.store.Set(s.ctx, postsPath, "sh1", postDoc(shared)))

	post, err := s.svc.LoadPost(s.ctx, "sh1", nil)
	s.Require().NoError(err)
	s.Require().NotNil(post)

	s.NotNil(s.svc.Post("org1"), "original must be cached alongside the share")
	s.NotNil(s.svc.Post("sh1"))
}

func (s *PostsTestSuite) TestLoadSharedPostWithMissingOriginal() {
	shared := &models.Post{
		PostID:    "sh1",
		Type:      models.PostShared,
		Creator:   "bob",
		CreatedAt: time.Now().UTC(),
		OrgPostID: "gone",
	}
	s.Require().NoError(s.store.Set(s.ctx, postsPath, "sh1", postDoc(shared)))

	post, err := s.svc.LoadPost(s.ctx, "sh1", nil)
	s.NoError(err)
	s.Nil(post)
	s.Nil(s.svc.Post("sh1"), "a dangling share must not be cached")
}

func (s *PostsTestSuite) TestLoadPostIsIdempotent() {
	s.seedOriginal("p1", "alice", time.Now().UTC())
	first, err := s.svc.LoadPost(s.ctx, "p1", nil)
	s.Require().NoError(err)
	second, err := s.svc.LoadPost(s.ctx, "p1", nil)
	s.Require().NoError(err)
	s.Equal(first.PostID, second.PostID)
	s.Equal(first.Original.Content, second.Original.Content)
}

func (s *PostsTestSuite) TestSnapshotsAreIsolated() {
	org, err := s.svc.CreatePost(s.ctx, "alice", longContent(), nil)
	s.Require().NoError(err)

	snap := s.svc.Post(org.PostID)
	snap.Original.Viewers.Add("mallory")

	s.Equal(0, s.svc.Post(org.PostID).Original.Viewers.Len(),
		"mutating a snapshot must not leak into the cache")
}

func (s *PostsTestSuite) TestMalformedPostTypeRejected() {
	s.Require().NoError(s.store.Set(s.ctx, postsPath, "bad", map[string]any{
		"type":      "weird",
		"creator":   "alice",
		"createdAt": time.Now().UTC().Format(models.TimeLayout),
	}))

	_, err := s.svc.LoadPost(s.ctx, "bad", nil)
	s.Error(err)
}

func TestLongContentIsLongEnough(t *testing.T) {
	if len(longContent()) < 140 {
		t.Fatalf("test fixture content too short: %d", len(longContent()))
	}
}

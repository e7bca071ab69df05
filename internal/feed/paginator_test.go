package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/murmur-social/murmur/internal/apperrors"
	"github.com/murmur-social/murmur/internal/models"
	"github.com/murmur-social/murmur/internal/store"
)

type PaginatorTestSuite struct {
	suite.Suite
	store *store.MemoryStore
	svc   *Service
	ctx   context.Context
}

func (s *PaginatorTestSuite) SetupTest() {
	s.store = store.NewMemoryStore()
	s.svc = NewService(s.store, nil)
	s.ctx = context.Background()
}

func TestPaginatorTestSuite(t *testing.T) {
	suite.Run(t, new(PaginatorTestSuite))
}

// seedFeed writes n original posts one minute apart, newest last
func (s *PaginatorTestSuite) seedFeed(n int) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("post-%02d", i)
		post := &models.Post{
			PostID:    id,
			Type:      models.PostOriginal,
			Creator:   "alice",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			OrgPostID: id,
			Original:  &models.OriginalContent{Content: longContent()},
		}
		s.Require().NoError(s.store.Set(s.ctx, postsPath, id, postDoc(post)))
	}
}

func (s *PaginatorTestSuite) TestEightPostsPageBySix() {
	s.seedFeed(8)

	loaded, err := s.svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	s.Equal(6, loaded)
	s.Len(s.svc.Posts(), 6)
	s.False(s.svc.NoMorePosts())

	// the first page holds the six newest
	s.NotNil(s.svc.Post("post-07"))
	s.NotNil(s.svc.Post("post-02"))
	s.Nil(s.svc.Post("post-01"))

	loaded, err = s.svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, loaded)
	s.Len(s.svc.Posts(), 8)
	s.False(s.svc.NoMorePosts(), "a short page is not yet terminal")

	loaded, err = s.svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, loaded)
	s.True(s.svc.NoMorePosts(), "an empty page flips the terminal state")

	// terminal state short-circuits without touching the store
	loaded, err = s.svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, loaded)
}

func (s *PaginatorTestSuite) TestEmptyFeedIsTerminalImmediately() {
	loaded, err := s.svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, loaded)
	s.True(s.svc.NoMorePosts())
}

func (s *PaginatorTestSuite) TestAlreadyCachedPostsAreSkipped() {
	s.seedFeed(3)
	s.svc.SetPageSize(10)

	_, err := s.svc.LoadPost(s.ctx, "post-02", nil)
	s.Require().NoError(err)

	loaded, err := s.svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, loaded, "the pre-cached post must not be reloaded")
	s.Len(s.svc.Posts(), 3)
}

func (s *PaginatorTestSuite) TestResetRestartsPagination() {
	s.seedFeed(8)

	_, err := s.svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	_, err = s.svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	_, err = s.svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	s.True(s.svc.NoMorePosts())

	s.svc.Reset()
	s.False(s.svc.NoMorePosts())
	s.Nil(s.svc.FeedCursor())
	s.Empty(s.svc.Posts())

	loaded, err := s.svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	s.Equal(6, loaded)
}

// blockingStore parks Page calls until released and counts them
type blockingStore struct {
	store.Store
	gate      chan struct{}
	pageCalls int
	mu        sync.Mutex
}

func (b *blockingStore) Page(ctx context.Context, path, orderField string, after *store.Cursor, limit int) ([]store.Document, *store.Cursor, error) {
	b.mu.Lock()
	b.pageCalls++
	b.mu.Unlock()
	<-b.gate
	return b.Store.Page(ctx, path, orderField, after, limit)
}

func (s *PaginatorTestSuite) TestConcurrentLoadDoesOneFetch() {
	s.seedFeed(3)
	blocking := &blockingStore{Store: s.store, gate: make(chan struct{})}
	svc := NewService(blocking, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.LoadPosts(s.ctx)
		done <- err
	}()

	// wait until the first call is inside the fetch
	s.Require().Eventually(func() bool {
		blocking.mu.Lock()
		defer blocking.mu.Unlock()
		return blocking.pageCalls == 1
	}, time.Second, time.Millisecond)

	// the second caller bails out without a remote call
	loaded, err := svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, loaded)
	blocking.mu.Lock()
	s.Equal(1, blocking.pageCalls)
	blocking.mu.Unlock()

	close(blocking.gate)
	s.Require().NoError(<-done)
	s.Len(svc.Posts(), 3)
}

// faultyStore fails event queries a set number of times
type faultyStore struct {
	store.Store
	failures int
}

func (f *faultyStore) Query(ctx context.Context, path string, filters ...store.Filter) ([]store.Document, error) {
	if f.failures > 0 {
		f.failures--
		return nil, apperrors.Unavailable("query", context.DeadlineExceeded)
	}
	return f.Store.Query(ctx, path, filters...)
}

func (s *PaginatorTestSuite) TestFailedPageDoesNotAdvanceCursor() {
	s.seedFeed(8)
	faulty := &faultyStore{Store: s.store, failures: 1}
	svc := NewService(faulty, nil)

	_, err := svc.LoadPosts(s.ctx)
	s.Require().Error(err)
	s.Nil(svc.FeedCursor(), "a failed page must stay retryable from the same position")

	loaded, err := svc.LoadPosts(s.ctx)
	s.Require().NoError(err)
	s.Equal(6, loaded)
}

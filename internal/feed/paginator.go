package feed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/murmur-social/murmur/internal/metrics"
	"github.com/murmur-social/murmur/internal/store"
)

// LoadPosts fetches the next feed page and loads every post on it that
// is not already cached. Returns the number of posts newly cached.
//
// At most one fetch runs at a time; a call arriving while another is in
// flight returns immediately without touching pagination state. Once a
// fetch comes back empty the feed is exhausted and later calls are no-ops
// until Reset. The cursor only advances after a page is fully loaded, so
// a failed page is retried from the same position.
func (s *Service) LoadPosts(ctx context.Context) (int, error) {
	if !s.loading.CompareAndSwap(false, true) {
		metrics.FeedLoadSkipped.WithLabelValues("in_flight").Inc()
		return 0, nil
	}
	defer s.loading.Store(false)

	s.mu.RLock()
	cursor := s.cursor
	noMore := s.noMore
	pageSize := s.pageSize
	s.mu.RUnlock()

	if noMore {
		metrics.FeedLoadSkipped.WithLabelValues("exhausted").Inc()
		return 0, nil
	}

	start := time.Now()
	docs, next, err := s.store.Page(ctx, postsPath, "createdAt", cursor, pageSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch feed page: %w", err)
	}
	metrics.PageFetchDuration.Observe(time.Since(start).Seconds())
	metrics.FeedPagesFetched.Inc()

	if len(docs) == 0 {
		s.mu.Lock()
		s.noMore = true
		s.mu.Unlock()
		s.log.Debug("Feed exhausted")
		return 0, nil
	}

	loaded := 0
	for _, doc := range docs {
		s.mu.RLock()
		_, cached := s.posts[doc.ID]
		s.mu.RUnlock()
		if cached {
			continue
		}
		post, err := s.LoadPost(ctx, doc.ID, doc.Data)
		if err != nil {
			return loaded, fmt.Errorf("failed to load post %s from page: %w", doc.ID, err)
		}
		if post != nil {
			loaded++
		}
	}

	s.mu.Lock()
	s.cursor = next
	s.mu.Unlock()

	s.log.Debug("Feed page loaded",
		zap.Int("page_size", len(docs)),
		zap.Int("new_posts", loaded))
	return loaded, nil
}

// NoMorePosts reports whether the feed hit its end
func (s *Service) NoMorePosts() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.noMore
}

// FeedCursor returns the current pagination cursor. Intended for tests.
func (s *Service) FeedCursor() *store.Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

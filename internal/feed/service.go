// Package feed is the cache layer between the presentation surface and
// the remote document store. It owns the normalized in-memory caches for
// posts, comments and profiles, resolves shared-post indirection, derives
// engagement sets from the append-only event log, and paginates the feed.
//
// All remote mutation is write-then-local-update: the remote write runs
// first and the cache changes only after it succeeds, so the cache never
// holds an unconfirmed write. Cache entries are published fully built;
// a failed operation leaves the cache untouched.
package feed

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/murmur-social/murmur/internal/models"
	"github.com/murmur-social/murmur/internal/store"
)

// DefaultPageSize is the feed page size
const DefaultPageSize = 6

const (
	postsPath    = "posts"
	profilesPath = "users"
)

func eventsPath(postID string) string { return postsPath + "/" + postID + "/events" }

func commentsPath(postID string) string { return postsPath + "/" + postID + "/comments" }

// Service owns the caches and every operation that mutates them. Nothing
// outside this package writes to the caches.
type Service struct {
	store store.Store
	log   *zap.Logger

	mu       sync.RWMutex
	posts    map[string]*models.Post
	comments map[string][]models.Comment
	profiles map[string]models.Profile

	// pagination state, guarded by mu except for the in-flight CAS flag
	pageSize int
	cursor   *store.Cursor
	noMore   bool
	loading  atomic.Bool
}

// NewService creates a feed service over the given store
func NewService(st store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    st,
		log:      log,
		posts:    make(map[string]*models.Post),
		comments: make(map[string][]models.Comment),
		profiles: make(map[string]models.Profile),
		pageSize: DefaultPageSize,
	}
}

// SetPageSize overrides the feed page size
func (s *Service) SetPageSize(n int) {
	if n > 0 {
		s.pageSize = n
	}
}

// Reset clears all caches and returns pagination to its initial state.
// Runs on sign-out.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = make(map[string]*models.Post)
	s.comments = make(map[string][]models.Comment)
	s.profiles = make(map[string]models.Profile)
	s.cursor = nil
	s.noMore = false
}

// Post returns a snapshot of one cached post, or nil when not loaded
func (s *Service) Post(postID string) *models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.posts[postID]; ok {
		return p.Clone()
	}
	return nil
}

// Posts returns a snapshot of the whole post cache keyed by post id
func (s *Service) Posts() map[string]*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.Post, len(s.posts))
	for id, p := range s.posts {
		out[id] = p.Clone()
	}
	return out
}

// Comments returns a snapshot of the cached comments for a post,
// newest first. Nil means the post's comments were never loaded.
func (s *Service) Comments(postID string) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.comments[postID]
	if !ok {
		return nil
	}
	return append([]models.Comment(nil), list...)
}

// Profile returns the cached profile for a user, if loaded
func (s *Service) Profile(userID string) (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	return p, ok
}

// resolveCached returns the cached post and its cached original. Both are
// the live cache entries; callers must hold no lock and must not mutate.
func (s *Service) resolveCached(postID string) (post, org *models.Post) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil, nil
	}
	return p, s.posts[p.OrgPostID]
}

package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/murmur-social/murmur/internal/apperrors"
	"github.com/murmur-social/murmur/internal/logger"
	"github.com/murmur-social/murmur/internal/metrics"
	"github.com/murmur-social/murmur/internal/models"
)

// CreatePost persists a new original post and inserts it into the cache.
// Content validation (minimum length) is the caller's responsibility; the
// cache layer assumes validated input.
func (s *Service) CreatePost(ctx context.Context, creator, content string, attachments []models.Attachment) (*models.Post, error) {
	postID := uuid.NewString()
	post := &models.Post{
		PostID:    postID,
		Type:      models.PostOriginal,
		Creator:   creator,
		CreatedAt: time.Now().UTC(),
		OrgPostID: postID, // originals reference themselves
		Original: &models.OriginalContent{
			Content:     content,
			Attachments: attachments,
			Viewers:     models.NewUserSet(),
			Flaggers:    models.NewUserSet(),
			Sharers:     models.NewUserSet(),
		},
	}

	if err := s.store.Set(ctx, postsPath, postID, postDoc(post)); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.mu.Lock()
	s.posts[postID] = post
	s.mu.Unlock()

	s.log.Debug("Post created", logger.WithPostID(postID), logger.WithUserID(creator))
	return post.Clone(), nil
}

// SharePost creates a shared post referencing the argument's original,
// appends a shared event to the original's log, and updates the cached
// original's sharers set. The sharers set records distinct actors, so a
// repeat share grows the event log but not the set.
func (s *Service) SharePost(ctx context.Context, actor, postID string) (*models.Post, error) {
	through, org := s.resolveCached(postID)
	if through == nil || org == nil {
		return nil, apperrors.NotFound("post " + postID)
	}

	now := time.Now().UTC()
	sharedID := uuid.NewString()
	shared := &models.Post{
		PostID:    sharedID,
		Type:      models.PostShared,
		Creator:   actor,
		CreatedAt: now,
		OrgPostID: org.PostID,
	}

	if err := s.store.Set(ctx, postsPath, sharedID, postDoc(shared)); err != nil {
		return nil, fmt.Errorf("failed to share post: %w", err)
	}

	_, err := s.store.Add(ctx, eventsPath(org.PostID), eventDoc(models.EngagementEvent{
		Type:          models.EventShared,
		OrgPostID:     org.PostID,
		ThroughPostID: through.PostID,
		NewPostID:     sharedID,
		Actor:         actor,
		Timestamp:     now,
	}))
	if err != nil {
		// Roll back the shared post so the remote never holds a share
		// without its event. Cache was not touched yet.
		if delErr := s.store.Delete(ctx, postsPath, sharedID); delErr != nil {
			s.log.Error("Failed to roll back shared post",
				logger.WithPostID(sharedID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record share event: %w", err)
	}
	metrics.EngagementWrites.WithLabelValues(string(models.EventShared), "add").Inc()

	s.mu.Lock()
	s.posts[sharedID] = shared
	if cur, ok := s.posts[org.PostID]; ok && cur.Original != nil {
		next := cur.Clone()
		next.Original.Sharers.Add(actor)
		s.posts[org.PostID] = next
	}
	s.mu.Unlock()

	s.log.Debug("Post shared",
		logger.WithPostID(org.PostID),
		zap.String("shared_post_id", sharedID),
		logger.WithUserID(actor))
	return shared.Clone(), nil
}

// ViewPost records a view of the post's original by the actor. Self-views
// by the original's creator and repeat views are no-ops, never errors.
// Repeat detection checks the cached viewers set first, then the remote
// event log, before anything is written.
func (s *Service) ViewPost(ctx context.Context, actor, postID string) error {
	through, org := s.resolveCached(postID)
	if through == nil || org == nil {
		return apperrors.NotFound("post " + postID)
	}

	if org.Creator == actor {
		return nil // the author can't count a view of their own post
	}
	if org.Original != nil && org.Original.Viewers.Contains(actor) {
		return nil
	}

	events, err := s.store.Query(ctx, eventsPath(org.PostID),
		eventFilter(models.EventViewed),
		actorFilter(models.EventViewed, actor),
	)
	if err != nil {
		return fmt.Errorf("failed to check existing views: %w", err)
	}
	if len(events) > 0 {
		return nil // viewed earlier in another session
	}

	_, err = s.store.Add(ctx, eventsPath(org.PostID), eventDoc(models.EngagementEvent{
		Type:          models.EventViewed,
		OrgPostID:     org.PostID,
		ThroughPostID: through.PostID,
		Actor:         actor,
		Timestamp:     time.Now().UTC(),
	}))
	if err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	metrics.EngagementWrites.WithLabelValues(string(models.EventViewed), "add").Inc()

	s.mutateOriginal(org.PostID, func(oc *models.OriginalContent) {
		oc.Viewers.Add(actor)
	})
	return nil
}

// ToggleFlagPost flips the actor's flag on the post's original. The flag
// state is the presence of flagged events: toggling off deletes every
// flagged event by the actor, toggling on inserts one. Repeated calls
// alternate strictly between the two states.
func (s *Service) ToggleFlagPost(ctx context.Context, actor, postID string) error {
	through, org := s.resolveCached(postID)
	if through == nil || org == nil {
		return apperrors.NotFound("post " + postID)
	}

	existing, err := s.store.Query(ctx, eventsPath(org.PostID),
		eventFilter(models.EventFlagged),
		actorFilter(models.EventFlagged, actor),
	)
	if err != nil {
		return fmt.Errorf("failed to check existing flags: %w", err)
	}

	if len(existing) > 0 {
		for _, doc := range existing {
			if err := s.store.Delete(ctx, eventsPath(org.PostID), doc.ID); err != nil {
				return fmt.Errorf("failed to remove flag: %w", err)
			}
		}
		metrics.EngagementWrites.WithLabelValues(string(models.EventFlagged), "delete").Inc()
		s.mutateOriginal(org.PostID, func(oc *models.OriginalContent) {
			oc.Flaggers.Remove(actor)
		})
		return nil
	}

	_, err = s.store.Add(ctx, eventsPath(org.PostID), eventDoc(models.EngagementEvent{
		Type:          models.EventFlagged,
		OrgPostID:     org.PostID,
		ThroughPostID: through.PostID,
		Actor:         actor,
		Timestamp:     time.Now().UTC(),
	}))
	if err != nil {
		return fmt.Errorf("failed to record flag: %w", err)
	}
	metrics.EngagementWrites.WithLabelValues(string(models.EventFlagged), "add").Inc()

	s.mutateOriginal(org.PostID, func(oc *models.OriginalContent) {
		oc.Flaggers.Add(actor)
	})
	return nil
}

// LoadPost fetches a post, normalizes it and merges it into the cache.
// known carries an already-fetched document snapshot (the paginator has
// one per page item) and skips the initial get.
//
// A shared post is never published before its original: the original is
// loaded first, recursively. Original posts fetch their full event log in
// one query and derive the engagement sets from it; if that fetch fails
// the load fails and nothing is cached. An absent post is a valid
// non-error state and returns (nil, nil).
func (s *Service) LoadPost(ctx context.Context, postID string, known map[string]any) (*models.Post, error) {
	data := known
	if data == nil {
		doc, err := s.store.Get(ctx, postsPath, postID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				s.log.Debug("Post does not exist", logger.WithPostID(postID))
				return nil, nil
			}
			return nil, fmt.Errorf("failed to fetch post %s: %w", postID, err)
		}
		data = doc.Data
	}

	post, err := postFromDoc(postID, data)
	if err != nil {
		return nil, err
	}

	if post.Type == models.PostShared {
		s.mu.RLock()
		_, orgLoaded := s.posts[post.OrgPostID]
		s.mu.RUnlock()

		if !orgLoaded {
			org, err := s.LoadPost(ctx, post.OrgPostID, nil)
			if err != nil {
				return nil, err
			}
			if org == nil {
				s.log.Warn("Shared post references a missing original",
					logger.WithPostID(postID),
					zap.String("org_post_id", post.OrgPostID))
				return nil, nil
			}
		}
	} else {
		eventDocs, err := s.store.Query(ctx, eventsPath(postID))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch event log for post %s: %w", postID, err)
		}
		events := make([]models.EngagementEvent, 0, len(eventDocs))
		for _, doc := range eventDocs {
			events = append(events, eventFromDoc(doc.Data))
		}
		post.Original.Viewers, post.Original.Flaggers, post.Original.Sharers = aggregateEngagement(events)
	}

	if err := s.EnsureProfile(ctx, post.Creator); err != nil {
		return nil, fmt.Errorf("failed to load creator profile for post %s: %w", postID, err)
	}

	// Publish the fully built entry. Loads produce complete snapshots, so
	// replacing the entry is last-writer-wins per field and re-applying
	// identical data is a no-op.
	s.mu.Lock()
	s.posts[postID] = post
	s.mu.Unlock()
	metrics.PostsLoaded.WithLabelValues(string(post.Type)).Inc()

	return post.Clone(), nil
}

// mutateOriginal clones the cached original, applies fn to its content
// and publishes the new entry. No-op when the post left the cache (e.g.
// a concurrent sign-out reset).
func (s *Service) mutateOriginal(postID string, fn func(*models.OriginalContent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.posts[postID]
	if !ok || cur.Original == nil {
		return
	}
	next := cur.Clone()
	fn(next.Original)
	s.posts[postID] = next
}

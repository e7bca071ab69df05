package feed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/murmur-social/murmur/internal/apperrors"
	"github.com/murmur-social/murmur/internal/logger"
	"github.com/murmur-social/murmur/internal/models"
)

// CommentPost appends a comment to the post's own comment collection.
// Comments attach to the post they were written under, not the original,
// so a shared post and its original keep separate threads.
func (s *Service) CommentPost(ctx context.Context, actor, postID, text string) (models.Comment, error) {
	s.mu.RLock()
	_, ok := s.posts[postID]
	s.mu.RUnlock()
	if !ok {
		return models.Comment{}, apperrors.NotFound("post " + postID)
	}

	comment := models.Comment{
		Comment:   text,
		Commenter: actor,
		Timestamp: time.Now().UTC(),
	}
	if _, err := s.store.Add(ctx, commentsPath(postID), commentDoc(comment)); err != nil {
		return models.Comment{}, fmt.Errorf("failed to add comment: %w", err)
	}

	// Prepend only when the thread is already cached; an unloaded thread
	// stays unloaded so the next LoadComments sees the full remote list.
	s.mu.Lock()
	if list, loaded := s.comments[postID]; loaded {
		s.comments[postID] = append([]models.Comment{comment}, list...)
	}
	s.mu.Unlock()

	s.log.Debug("Comment added", logger.WithPostID(postID), logger.WithUserID(actor))
	return comment, nil
}

// LoadComments fetches a post's full comment thread, newest first, and
// replaces the cached thread. Commenter profiles are ensured so the
// thread renders with author names.
func (s *Service) LoadComments(ctx context.Context, postID string) ([]models.Comment, error) {
	docs, _, err := s.store.Page(ctx, commentsPath(postID), "timestamp", nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments for post %s: %w", postID, err)
	}

	list := make([]models.Comment, 0, len(docs))
	for _, doc := range docs {
		list = append(list, commentFromDoc(doc.Data))
	}

	for _, c := range list {
		if err := s.EnsureProfile(ctx, c.Commenter); err != nil {
			s.log.Warn("Failed to load commenter profile",
				logger.WithPostID(postID),
				logger.WithUserID(c.Commenter),
				zap.Error(err))
		}
	}

	s.mu.Lock()
	s.comments[postID] = list
	s.mu.Unlock()

	return append([]models.Comment(nil), list...), nil
}

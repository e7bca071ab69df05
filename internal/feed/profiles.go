package feed

import (
	"context"
	"fmt"

	"github.com/murmur-social/murmur/internal/apperrors"
	"github.com/murmur-social/murmur/internal/logger"
	"github.com/murmur-social/murmur/internal/metrics"
	"github.com/murmur-social/murmur/internal/models"
)

// LoadProfile fetches a user's profile and caches it. The second return
// reports whether the profile document exists; absence is not an error
// (a freshly signed-up user has credentials but no profile yet).
func (s *Service) LoadProfile(ctx context.Context, userID string) (models.Profile, bool, error) {
	doc, err := s.store.Get(ctx, profilesPath, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return models.Profile{}, false, nil
		}
		return models.Profile{}, false, fmt.Errorf("failed to fetch profile %s: %w", userID, err)
	}

	profile := profileFromDoc(userID, doc.Data)
	s.mu.Lock()
	s.profiles[userID] = profile
	s.mu.Unlock()

	return profile, true, nil
}

// EnsureProfile makes sure a user's profile is cached, fetching it only
// on a cache miss. Used for post creators and commenters so every cached
// post and comment has a resolvable author.
func (s *Service) EnsureProfile(ctx context.Context, userID string) error {
	s.mu.RLock()
	_, cached := s.profiles[userID]
	s.mu.RUnlock()
	if cached {
		metrics.ProfileCacheLookups.WithLabelValues("hit").Inc()
		return nil
	}
	metrics.ProfileCacheLookups.WithLabelValues("miss").Inc()

	_, _, err := s.LoadProfile(ctx, userID)
	return err
}

// UpdateProfileDetails writes a partial profile update and merges the
// same fields into the cached entry. Creates the profile document when
// this is the first write (signup completion).
func (s *Service) UpdateProfileDetails(ctx context.Context, userID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	err := s.store.Update(ctx, profilesPath, userID, fields)
	if apperrors.IsNotFound(err) {
		err = s.store.Set(ctx, profilesPath, userID, fields)
	}
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", userID, err)
	}

	s.mu.Lock()
	profile := s.profiles[userID]
	profile.UserID = userID
	profile.Apply(fields)
	s.profiles[userID] = profile
	s.mu.Unlock()

	s.log.Debug("Profile updated", logger.WithUserID(userID))
	return nil
}

// Package seed fills the document store with realistic development data:
// accounts, profiles, long-form posts, shares, engagement events and
// comment threads.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/murmur-social/murmur/internal/models"
	"github.com/murmur-social/murmur/internal/store"
)

// DefaultPassword is the password every seeded account signs in with
const DefaultPassword = "password123"

// Seeder handles document store seeding operations
type Seeder struct {
	store store.Store
	log   *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(st store.Store, log *zap.Logger) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{store: st, log: log}
}

// SeedDev seeds a development environment with realistic data
func (s *Seeder) SeedDev(ctx context.Context) error {
	return s.seed(ctx, 20, 50, 120)
}

// SeedTest seeds a minimal data set for integration testing
func (s *Seeder) SeedTest(ctx context.Context) error {
	return s.seed(ctx, 4, 8, 12)
}

func (s *Seeder) seed(ctx context.Context, userCount, postCount, commentCount int) error {
	s.log.Info("Seeding users", zap.Int("count", userCount))
	users, err := s.seedUsers(ctx, userCount)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	s.log.Info("Seeding posts", zap.Int("count", postCount))
	originals, err := s.seedPosts(ctx, users, postCount)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	s.log.Info("Seeding shares and engagement")
	if err := s.seedEngagement(ctx, users, originals); err != nil {
		return fmt.Errorf("failed to seed engagement: %w", err)
	}

	s.log.Info("Seeding comments", zap.Int("count", commentCount))
	if err := s.seedComments(ctx, users, originals, commentCount); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	s.log.Info("Seeding complete")
	return nil
}

// seedUsers creates credential and profile documents for n users
func (s *Seeder) seedUsers(ctx context.Context, n int) ([]string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		userID := uuid.NewString()
		email := fmt.Sprintf("%s.%d@murmur.test", strings.ToLower(gofakeit.Username()), i)

		err := s.store.Set(ctx, "credentials", userID, map[string]any{
			"email":        email,
			"passwordHash": string(hash),
			"createdAt":    time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return nil, err
		}

		err = s.store.Set(ctx, "users", userID, map[string]any{
			"name":      gofakeit.Name(),
			"bio":       gofakeit.Quote(),
			"gender":    gofakeit.Gender(),
			"birthYear": fmt.Sprintf("%d", gofakeit.Number(1960, 2005)),
		})
		if err != nil {
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}
	return userIDs, nil
}

// seedPosts creates n original posts with long-form content spread over
// the last 30 days
func (s *Seeder) seedPosts(ctx context.Context, users []string, n int) ([]string, error) {
	postIDs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		postID := uuid.NewString()
		createdAt := time.Now().UTC().Add(-time.Duration(rand.Intn(30*24)) * time.Hour)

		doc := map[string]any{
			"postId":    postID,
			"type":      string(models.PostOriginal),
			"creator":   users[rand.Intn(len(users))],
			"createdAt": createdAt.Format(models.TimeLayout),
			"orgPostId": postID,
			"content":   longFormContent(),
		}
		if rand.Intn(4) == 0 {
			doc["attachments"] = []any{map[string]any{
				"url":       gofakeit.ImageURL(640, 480),
				"mediaType": "image/jpeg",
			}}
		}

		if err := s.store.Set(ctx, "posts", postID, doc); err != nil {
			return nil, err
		}
		postIDs = append(postIDs, postID)
	}
	return postIDs, nil
}

// seedEngagement adds shared posts plus viewed and flagged events to a
// random subset of the originals
func (s *Seeder) seedEngagement(ctx context.Context, users, originals []string) error {
	for _, orgID := range lo.Samples(originals, len(originals)/2) {
		actor := users[rand.Intn(len(users))]
		ts := time.Now().UTC().Add(-time.Duration(rand.Intn(24)) * time.Hour)

		sharedID := uuid.NewString()
		err := s.store.Set(ctx, "posts", sharedID, map[string]any{
			"postId":    sharedID,
			"type":      string(models.PostShared),
			"creator":   actor,
			"createdAt": ts.Format(models.TimeLayout),
			"orgPostId": orgID,
		})
		if err != nil {
			return err
		}

		_, err = s.store.Add(ctx, "posts/"+orgID+"/events", map[string]any{
			"type":          string(models.EventShared),
			"orgPostId":     orgID,
			"throughPostId": orgID,
			"newPostId":     sharedID,
			"sharer":        actor,
			"timestamp":     ts.Format(models.TimeLayout),
		})
		if err != nil {
			return err
		}

		for _, viewer := range lo.Samples(users, 1+rand.Intn(4)) {
			_, err = s.store.Add(ctx, "posts/"+orgID+"/events", map[string]any{
				"type":          string(models.EventViewed),
				"orgPostId":     orgID,
				"throughPostId": orgID,
				"viewer":        viewer,
				"timestamp":     ts.Format(models.TimeLayout),
			})
			if err != nil {
				return err
			}
		}

		if rand.Intn(10) == 0 {
			_, err = s.store.Add(ctx, "posts/"+orgID+"/events", map[string]any{
				"type":          string(models.EventFlagged),
				"orgPostId":     orgID,
				"throughPostId": orgID,
				"flagger":       users[rand.Intn(len(users))],
				"timestamp":     ts.Format(models.TimeLayout),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// seedComments spreads n comments across random posts
func (s *Seeder) seedComments(ctx context.Context, users, posts []string, n int) error {
	for i := 0; i < n; i++ {
		postID := posts[rand.Intn(len(posts))]
		_, err := s.store.Add(ctx, "posts/"+postID+"/comments", map[string]any{
			"comment":   gofakeit.Sentence(8 + rand.Intn(12)),
			"commenter": users[rand.Intn(len(users))],
			"timestamp": time.Now().UTC().Add(-time.Duration(rand.Intn(12)) * time.Hour).Format(models.TimeLayout),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// longFormContent produces a body comfortably over the 140 character
// minimum
func longFormContent() string {
	paragraphs := gofakeit.Paragraph(1, 3, 12, " ")
	for len(paragraphs) < 140 {
		paragraphs += " " + gofakeit.Sentence(12)
	}
	return paragraphs
}

package feed

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/murmur-social/murmur/internal/identity"
	"github.com/murmur-social/murmur/internal/logger"
)

// State is the session-driven cache lifecycle state.
type State string

const (
	// StateSignedOut means no session; caches are empty.
	StateSignedOut State = "signed_out"
	// StateProfileLoading means a session exists and the user's profile
	// fetch is in flight.
	StateProfileLoading State = "profile_loading"
	// StateNoProfile means the user authenticated but never completed
	// their profile; the feed is withheld until they do.
	StateNoProfile State = "no_profile"
	// StateReady means the profile is loaded and the feed is live.
	StateReady State = "ready"
)

// Lifecycle drives the cache through its session states. Entering Ready
// triggers the initial feed load exactly once per entry; signing out
// drops every cache so nothing leaks across accounts.
type Lifecycle struct {
	svc *Service
	log *zap.Logger

	mu     sync.RWMutex
	state  State
	userID string
}

// NewLifecycle creates a lifecycle in the signed-out state
func NewLifecycle(svc *Service, log *zap.Logger) *Lifecycle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Lifecycle{svc: svc, log: log, state: StateSignedOut}
}

// Bind subscribes the lifecycle to session changes. Returns the
// unsubscribe function.
func (l *Lifecycle) Bind(sessions *identity.SessionHolder) func() {
	return sessions.Subscribe(func(s *identity.Session) {
		if err := l.HandleSession(context.Background(), s); err != nil {
			l.log.Error("Session transition failed", zap.Error(err))
		}
	})
}

// HandleSession applies a session change. nil means signed out.
func (l *Lifecycle) HandleSession(ctx context.Context, s *identity.Session) error {
	if s == nil {
		l.mu.Lock()
		l.state = StateSignedOut
		l.userID = ""
		l.mu.Unlock()
		l.svc.Reset()
		l.log.Info("Signed out, caches cleared")
		return nil
	}

	l.mu.Lock()
	if l.userID == s.UserID && l.state != StateSignedOut {
		l.mu.Unlock()
		return nil // token refresh for the same user, nothing to do
	}
	if l.userID != "" && l.userID != s.UserID {
		// account switch without an intervening sign-out
		l.svc.Reset()
	}
	l.state = StateProfileLoading
	l.userID = s.UserID
	l.mu.Unlock()

	l.log.Info("Session established", logger.WithUserID(s.UserID))
	return l.refresh(ctx, s.UserID)
}

// refresh loads the signed-in user's profile and settles into Ready or
// NoProfile. A failed profile fetch stays in ProfileLoading so the next
// refresh retries.
func (l *Lifecycle) refresh(ctx context.Context, userID string) error {
	_, exists, err := l.svc.LoadProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile on sign-in: %w", err)
	}

	if !exists {
		l.setState(userID, StateNoProfile)
		l.log.Info("Profile incomplete", logger.WithUserID(userID))
		return nil
	}
	return l.enterReady(ctx, userID)
}

// enterReady marks the lifecycle ready and kicks off the initial feed
// load. The state flips before the load so a slow first page does not
// hold the transition, and the load runs once because it happens only on
// the transition edge.
func (l *Lifecycle) enterReady(ctx context.Context, userID string) error {
	if !l.setState(userID, StateReady) {
		return nil
	}
	l.log.Info("Cache ready", logger.WithUserID(userID))

	if _, err := l.svc.LoadPosts(ctx); err != nil {
		return fmt.Errorf("initial feed load failed: %w", err)
	}
	return nil
}

// CompleteProfile writes the user's first profile details and, when the
// lifecycle was waiting on them, moves it to Ready.
func (l *Lifecycle) CompleteProfile(ctx context.Context, userID string, fields map[string]any) error {
	if err := l.svc.UpdateProfileDetails(ctx, userID, fields); err != nil {
		return err
	}

	l.mu.RLock()
	waiting := l.state == StateNoProfile && l.userID == userID
	l.mu.RUnlock()
	if !waiting {
		return nil
	}
	return l.enterReady(ctx, userID)
}

// State returns the current lifecycle state
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// UserID returns the signed-in user, empty when signed out
func (l *Lifecycle) UserID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.userID
}

// setState transitions to next if the same user is still signed in.
// Returns false when the session changed underneath the transition.
func (l *Lifecycle) setState(userID string, next State) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.userID != userID {
		return false
	}
	if l.state == next {
		return false
	}
	l.state = next
	return true
}

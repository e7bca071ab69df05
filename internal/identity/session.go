package identity

import "sync"

// SessionHolder tracks the current session and fans out changes to
// subscribers. A nil session means signed out. The cache lifecycle is the
// main subscriber; it resets or reloads state on every change.
type SessionHolder struct {
	mu      sync.RWMutex
	current *Session
	subs    map[int]func(*Session)
	nextSub int
}

// NewSessionHolder creates an empty (signed-out) holder
func NewSessionHolder() *SessionHolder {
	return &SessionHolder{subs: make(map[int]func(*Session))}
}

// Current returns the active session, or nil when signed out
func (h *SessionHolder) Current() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Set publishes a session change to all subscribers. Pass nil on sign-out.
func (h *SessionHolder) Set(s *Session) {
	h.mu.Lock()
	h.current = s
	subs := make([]func(*Session), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	// Callbacks run outside the lock so they can read Current or
	// re-subscribe without deadlocking.
	for _, fn := range subs {
		fn(s)
	}
}

// Subscribe registers a callback for session changes and immediately
// delivers the current state. Returns an unsubscribe func.
func (h *SessionHolder) Subscribe(fn func(*Session)) func() {
	h.mu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	current := h.current
	h.mu.Unlock()

	fn(current)

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

package models

import "time"

// EventType discriminates engagement events
type EventType string

const (
	EventViewed  EventType = "viewed"
	EventFlagged EventType = "flagged"
	EventShared  EventType = "shared"
)

// ActorField returns the document field that names the acting user for
// this event type. The remote schema stores the actor under a per-type
// field name rather than a shared one.
func (t EventType) ActorField() string {
	switch t {
	case EventViewed:
		return "viewer"
	case EventFlagged:
		return "flagger"
	case EventShared:
		return "sharer"
	}
	return "actor"
}

// EngagementEvent is one append-only record in an original post's event
// log. ThroughPostID is the post instance the actor interacted with,
// which may be a share of the original. NewPostID is set only on shared
// events and names the share that was created.
type EngagementEvent struct {
	Type          EventType
	OrgPostID     string
	ThroughPostID string
	NewPostID     string
	Actor         string
	Timestamp     time.Time
}

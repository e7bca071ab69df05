// Package models holds the domain types the cache layer normalizes:
// posts (original/shared variants), comments, profiles and the append-only
// engagement events recorded against original posts.
package models

import (
	"encoding/json"
	"sort"
	"time"
)

// TimeLayout is the fixed-width UTC timestamp format used inside store
// documents. Fixed width keeps lexicographic order equal to chronological
// order, which the pagination cursor depends on.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// PostType discriminates the two post variants
type PostType string

const (
	PostOriginal PostType = "original"
	PostShared   PostType = "shared"
)

// Attachment is one image attached to an original post
type Attachment struct {
	URL       string `json:"url"`
	MediaType string `json:"mediaType"`
}

// UserSet is a set of user ids. Engagement state is kept as sets rather
// than counts so toggle and idempotency rules stay well-defined.
type UserSet map[string]struct{}

// NewUserSet builds a set from the given members
func NewUserSet(members ...string) UserSet {
	s := make(UserSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts a member; re-adding an existing member is a no-op
func (s UserSet) Add(id string) { s[id] = struct{}{} }

// Remove deletes a member; removing an absent member is a no-op
func (s UserSet) Remove(id string) { delete(s, id) }

// Contains reports membership
func (s UserSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the set cardinality
func (s UserSet) Len() int { return len(s) }

// Members returns the members in sorted order
func (s UserSet) Members() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy
func (s UserSet) Clone() UserSet {
	out := make(UserSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted array of ids
func (s UserSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Members())
}

// UnmarshalJSON decodes an array of ids
func (s *UserSet) UnmarshalJSON(data []byte) error {
	var members []string
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*s = NewUserSet(members...)
	return nil
}

// OriginalContent carries the fields only original posts have. Shared
// posts reference an original and hold no content or engagement of
// their own.
type OriginalContent struct {
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Viewers     UserSet      `json:"viewers"`
	Flaggers    UserSet      `json:"flaggers"`
	Sharers     UserSet      `json:"sharers"`
}

// Post is a feed entry. Type tags the variant: original posts carry
// Original, shared posts leave it nil and point at the original through
// OrgPostID. For original posts OrgPostID is the post's own id.
type Post struct {
	PostID    string    `json:"postId"`
	Type      PostType  `json:"type"`
	Creator   string    `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	OrgPostID string    `json:"orgPostId"`

	Original *OriginalContent `json:"original,omitempty"`
}

// IsOriginal reports whether the post is the original variant
func (p *Post) IsOriginal() bool { return p.Type == PostOriginal }

// Clone returns a deep copy, so cache mutations never leak into snapshots
// handed to callers.
func (p *Post) Clone() *Post {
	out := *p
	if p.Original != nil {
		oc := OriginalContent{
			Content:     p.Original.Content,
			Attachments: append([]Attachment(nil), p.Original.Attachments...),
			Viewers:     p.Original.Viewers.Clone(),
			Flaggers:    p.Original.Flaggers.Clone(),
			Sharers:     p.Original.Sharers.Clone(),
		}
		out.Original = &oc
	}
	return &out
}

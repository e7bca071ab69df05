package models

import "time"

// Comment is an immutable comment on a post. Comments have no standalone
// identity outside their parent post and are never edited or deleted.
type Comment struct {
	Comment   string    `json:"comment"`
	Commenter string    `json:"commenter"`
	Timestamp time.Time `json:"timestamp"`
}

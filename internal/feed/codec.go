package feed

import (
	"fmt"
	"time"

	"github.com/murmur-social/murmur/internal/models"
	"github.com/murmur-social/murmur/internal/store"
)

// Document codecs between the typed domain models and the schemaless
// store documents. Engagement sets are never stored on the post document;
// they are derived from the event sub-collection on load.

func formatTime(t time.Time) string {
	return t.UTC().Format(models.TimeLayout)
}

func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{models.TimeLayout, time.RFC3339Nano, time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func postDoc(p *models.Post) map[string]any {
	doc := map[string]any{
		"postId":    p.PostID,
		"type":      string(p.Type),
		"creator":   p.Creator,
		"createdAt": formatTime(p.CreatedAt),
		"orgPostId": p.OrgPostID,
	}
	if p.Original != nil {
		doc["content"] = p.Original.Content
		if len(p.Original.Attachments) > 0 {
			attachments := make([]any, len(p.Original.Attachments))
			for i, a := range p.Original.Attachments {
				attachments[i] = map[string]any{"url": a.URL, "mediaType": a.MediaType}
			}
			doc["attachments"] = attachments
		}
	}
	return doc
}

func postFromDoc(id string, data map[string]any) (*models.Post, error) {
	typ := models.PostType(str(data["type"]))
	if typ != models.PostOriginal && typ != models.PostShared {
		return nil, fmt.Errorf("post %s has malformed type %q", id, data["type"])
	}

	p := &models.Post{
		PostID:    id,
		Type:      typ,
		Creator:   str(data["creator"]),
		CreatedAt: parseTime(data["createdAt"]),
		OrgPostID: str(data["orgPostId"]),
	}

	if typ == models.PostOriginal {
		p.Original = &models.OriginalContent{
			Content:     str(data["content"]),
			Attachments: attachmentsFromDoc(data["attachments"]),
			Viewers:     models.NewUserSet(),
			Flaggers:    models.NewUserSet(),
			Sharers:     models.NewUserSet(),
		}
	}
	return p, nil
}

func attachmentsFromDoc(v any) []models.Attachment {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]models.Attachment, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, models.Attachment{
				URL:       str(m["url"]),
				MediaType: str(m["mediaType"]),
			})
		}
	}
	return out
}

func eventDoc(ev models.EngagementEvent) map[string]any {
	doc := map[string]any{
		"type":              string(ev.Type),
		"orgPostId":         ev.OrgPostID,
		"throughPostId":     ev.ThroughPostID,
		ev.Type.ActorField(): ev.Actor,
		"timestamp":         formatTime(ev.Timestamp),
	}
	if ev.NewPostID != "" {
		doc["newPostId"] = ev.NewPostID
	}
	return doc
}

func eventFromDoc(data map[string]any) models.EngagementEvent {
	typ := models.EventType(str(data["type"]))
	return models.EngagementEvent{
		Type:          typ,
		OrgPostID:     str(data["orgPostId"]),
		ThroughPostID: str(data["throughPostId"]),
		NewPostID:     str(data["newPostId"]),
		Actor:         str(data[typ.ActorField()]),
		Timestamp:     parseTime(data["timestamp"]),
	}
}

// eventFilter selects events of one type within a post's event log.
func eventFilter(t models.EventType) store.Filter {
	return store.Filter{Field: "type", Value: string(t)}
}

// actorFilter selects one actor's events. The actor field name depends on
// the event type, so the type rides along.
func actorFilter(t models.EventType, actor string) store.Filter {
	return store.Filter{Field: t.ActorField(), Value: actor}
}

func commentDoc(c models.Comment) map[string]any {
	return map[string]any{
		"comment":   c.Comment,
		"commenter": c.Commenter,
		"timestamp": formatTime(c.Timestamp),
	}
}

func commentFromDoc(data map[string]any) models.Comment {
	return models.Comment{
		Comment:   str(data["comment"]),
		Commenter: str(data["commenter"]),
		Timestamp: parseTime(data["timestamp"]),
	}
}

func profileFromDoc(userID string, data map[string]any) models.Profile {
	p := models.Profile{UserID: userID}
	p.Apply(data)
	return p
}

package feed

import (
	"github.com/samber/lo"

	"github.com/murmur-social/murmur/internal/models"
)

// aggregateEngagement folds an original post's full event log into its
// three engagement sets.
//
// Viewers and sharers are the distinct actors of their event types; a
// user who shared a post three times appears once in sharers even though
// three shared events exist. Flag state is exactly "a flagged event is
// still present": toggling a flag off deletes the event, so absence means
// not flagged.
func aggregateEngagement(events []models.EngagementEvent) (viewers, flaggers, sharers models.UserSet) {
	actorsOf := func(t models.EventType) []string {
		return lo.FilterMap(events, func(ev models.EngagementEvent, _ int) (string, bool) {
			return ev.Actor, ev.Type == t && ev.Actor != ""
		})
	}

	viewers = models.NewUserSet(actorsOf(models.EventViewed)...)
	flaggers = models.NewUserSet(actorsOf(models.EventFlagged)...)
	sharers = models.NewUserSet(actorsOf(models.EventShared)...)
	return viewers, flaggers, sharers
}

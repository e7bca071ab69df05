package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/murmur-social/murmur/internal/models"
)

func event(t models.EventType, actor string) models.EngagementEvent {
	return models.EngagementEvent{
		Type:      t,
		OrgPostID: "p1",
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	}
}

func TestAggregateEngagementEmpty(t *testing.T) {
	viewers, flaggers, sharers := aggregateEngagement(nil)
	assert.Equal(t, 0, viewers.Len())
	assert.Equal(t, 0, flaggers.Len())
	assert.Equal(t, 0, sharers.Len())
}

func TestAggregateEngagementSplitsByType(t *testing.T) {
	viewers, flaggers, sharers := aggregateEngagement([]models.EngagementEvent{
		event(models.EventViewed, "bob"),
		event(models.EventFlagged, "carol"),
		event(models.EventShared, "dave"),
	})

	assert.Equal(t, []string{"bob"}, viewers.Members())
	assert.Equal(t, []string{"carol"}, flaggers.Members())
	assert.Equal(t, []string{"dave"}, sharers.Members())
}

func TestAggregateEngagementDeduplicatesActors(t *testing.T) {
	_, _, sharers := aggregateEngagement([]models.EngagementEvent{
		event(models.EventShared, "bob"),
		event(models.EventShared, "bob"),
		event(models.EventShared, "carol"),
	})

	assert.Equal(t, 2, sharers.Len())
}

func TestAggregateEngagementIgnoresBlankActors(t *testing.T) {
	viewers, _, _ := aggregateEngagement([]models.EngagementEvent{
		event(models.EventViewed, ""),
		event(models.EventViewed, "bob"),
	})

	assert.Equal(t, []string{"bob"}, viewers.Members())
}

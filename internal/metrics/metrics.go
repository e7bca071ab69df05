// Package metrics exposes prometheus instrumentation for the cache layer.
// Everything registers on the default registry; the server serves it on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedPagesFetched counts completed feed page fetches
	FeedPagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "murmur_feed_pages_fetched_total",
		Help: "Number of feed pages fetched from the remote store",
	})

	// FeedLoadSkipped counts LoadPosts calls short-circuited by the
	// in-flight guard or the terminal state
	FeedLoadSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_feed_load_skipped_total",
		Help: "Feed load calls skipped without a remote request",
	}, []string{"reason"})

	// PostsLoaded counts posts normalized into the cache
	PostsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_posts_loaded_total",
		Help: "Posts loaded and merged into the cache",
	}, []string{"type"})

	// PageFetchDuration observes feed page fetch latency
	PageFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "murmur_feed_page_fetch_seconds",
		Help:    "Latency of feed page fetches",
		Buckets: prometheus.DefBuckets,
	})

	// ProfileCacheLookups counts profile cache hits and misses
	ProfileCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_profile_cache_lookups_total",
		Help: "Profile cache lookups by result",
	}, []string{"result"})

	// EngagementWrites counts engagement events written by type
	EngagementWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_engagement_events_total",
		Help: "Engagement events appended or removed",
	}, []string{"type", "action"})
)

package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/murmur-social/murmur/internal/models"
)

// GetFeed advances pagination by one page and returns the cached feed,
// newest first. A request landing while another fetch is in flight
// returns the current cache unchanged; clients poll again for the page.
func (h *Handlers) GetFeed(c *gin.Context) {
	loaded, err := h.feed.LoadPosts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	posts := lo.Values(h.feed.Posts())
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].PostID > posts[j].PostID
	})

	views := lo.Map(posts, func(p *models.Post, _ int) gin.H {
		return h.postView(p)
	})

	c.JSON(http.StatusOK, gin.H{
		"posts":      views,
		"new_posts":  loaded,
		"exhausted":  h.feed.NoMorePosts(),
		"post_count": len(views),
	})
}

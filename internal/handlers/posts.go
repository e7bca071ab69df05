package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/murmur-social/murmur/internal/models"
)

// minContentLength is the shortest post body accepted. Short reactions
// belong in comments.
const minContentLength = 140

type createPostRequest struct {
	Content     string `json:"content" binding:"required"`
	Attachments []struct {
		URL       string `json:"url" binding:"required"`
		MediaType string `json:"media_type"`
	} `json:"attachments"`
}

// CreatePost creates an original post by the signed-in user
func (h *Handlers) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Content) < minContentLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "post content must be at least 140 characters",
		})
		return
	}

	attachments := make([]models.Attachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		attachments = append(attachments, models.Attachment{
			URL:       a.URL,
			MediaType: a.MediaType,
		})
	}

	post, err := h.feed.CreatePost(c.Request.Context(), currentUserID(c), req.Content, attachments)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.postView(post))
}

// SharePost creates a shared post referencing the target's original
func (h *Handlers) SharePost(c *gin.Context) {
	post, err := h.feed.SharePost(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.postView(post))
}

// ViewPost records a view. Self-views and repeat views succeed without
// changing anything, the response carries the (possibly unchanged) post.
func (h *Handlers) ViewPost(c *gin.Context) {
	postID := c.Param("id")
	if err := h.feed.ViewPost(c.Request.Context(), currentUserID(c), postID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.postView(h.feed.Post(postID)))
}

// FlagPost toggles the signed-in user's flag on the post
func (h *Handlers) FlagPost(c *gin.Context) {
	postID := c.Param("id")
	if err := h.feed.ToggleFlagPost(c.Request.Context(), currentUserID(c), postID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.postView(h.feed.Post(postID)))
}

// postView renders a post for the API. Shared posts carry the rendered
// original inline so clients never chase the reference themselves.
func (h *Handlers) postView(p *models.Post) gin.H {
	if p == nil {
		return nil
	}
	view := gin.H{
		"post_id":     p.PostID,
		"type":        p.Type,
		"creator":     p.Creator,
		"created_at":  p.CreatedAt.Format(models.TimeLayout),
		"org_post_id": p.OrgPostID,
	}

	org := p
	if !p.IsOriginal() {
		if cached := h.feed.Post(p.OrgPostID); cached != nil {
			org = cached
			view["original"] = h.postView(cached)
		}
	}
	if org.Original != nil {
		view["content"] = org.Original.Content
		view["attachments"] = org.Original.Attachments
		view["viewers"] = org.Original.Viewers.Members()
		view["flaggers"] = org.Original.Flaggers.Members()
		view["sharers"] = org.Original.Sharers.Members()
		view["view_count"] = org.Original.Viewers.Len()
		view["share_count"] = org.Original.Sharers.Len()
	}
	return view
}

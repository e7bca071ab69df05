package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/murmur-social/murmur/internal/models"
)

type createCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// CreateComment appends a comment to the post's thread
func (h *Handlers) CreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text := strings.TrimSpace(req.Comment)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment cannot be empty"})
		return
	}

	comment, err := h.feed.CommentPost(c.Request.Context(), currentUserID(c), c.Param("id"), text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.commentView(comment))
}

// GetComments returns the post's full comment thread, newest first
func (h *Handlers) GetComments(c *gin.Context) {
	comments, err := h.feed.LoadComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := lo.Map(comments, func(cm models.Comment, _ int) gin.H {
		return h.commentView(cm)
	})
	c.JSON(http.StatusOK, gin.H{"comments": views, "count": len(views)})
}

// commentView renders a comment with its author's cached profile name
func (h *Handlers) commentView(cm models.Comment) gin.H {
	view := gin.H{
		"comment":   cm.Comment,
		"commenter": cm.Commenter,
		"timestamp": cm.Timestamp.Format(models.TimeLayout),
	}
	if profile, ok := h.feed.Profile(cm.Commenter); ok {
		view["commenter_name"] = profile.Name
	}
	return view
}

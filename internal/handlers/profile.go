package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/murmur-social/murmur/internal/models"
)

// GetProfile returns a user's profile, loading it into the cache on a
// miss. A user who signed up but never completed their profile yields
// 404 with profile_complete=false.
func (h *Handlers) GetProfile(c *gin.Context) {
	userID := c.Param("id")

	profile, ok := h.feed.Profile(userID)
	if !ok {
		var exists bool
		var err error
		profile, exists, err = h.feed.LoadProfile(c.Request.Context(), userID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{
				"error":            "profile not found",
				"profile_complete": false,
			})
			return
		}
	}

	c.JSON(http.StatusOK, profileView(profile))
}

type updateProfileRequest struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	Gender    *string `json:"gender"`
	BirthYear *string `json:"birthYear"`
}

// UpdateProfile applies a partial update to the signed-in user's own
// profile. The first update completes signup and unlocks the feed.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	userID := c.Param("id")
	if userID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot edit another user's profile"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	for key, val := range map[string]*string{
		"name":      req.Name,
		"bio":       req.Bio,
		"gender":    req.Gender,
		"birthYear": req.BirthYear,
	} {
		if val != nil {
			fields[key] = *val
		}
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no profile fields provided"})
		return
	}

	if err := h.lifecycle.CompleteProfile(c.Request.Context(), userID, fields); err != nil {
		h.respondError(c, err)
		return
	}

	profile, _ := h.feed.Profile(userID)
	c.JSON(http.StatusOK, profileView(profile))
}

func profileView(p models.Profile) gin.H {
	view := gin.H{
		"userId":    p.UserID,
		"name":      p.Name,
		"bio":       p.Bio,
		"gender":    p.Gender,
		"birthYear": p.BirthYear,
	}
	if age := p.Age(time.Now()); age != "" {
		view["age"] = age
	}
	return view
}

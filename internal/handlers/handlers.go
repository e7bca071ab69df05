// Package handlers contains the HTTP surface over the feed cache and the
// identity provider. Handlers stay thin: validate input, call the
// service, translate coded errors onto status codes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/murmur-social/murmur/internal/apperrors"
	"github.com/murmur-social/murmur/internal/feed"
	"github.com/murmur-social/murmur/internal/identity"
	"github.com/murmur-social/murmur/internal/storage"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	feed      *feed.Service
	lifecycle *feed.Lifecycle
	provider  identity.Provider
	sessions  *identity.SessionHolder
	uploader  storage.Uploader
	log       *zap.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	svc *feed.Service,
	lc *feed.Lifecycle,
	provider identity.Provider,
	sessions *identity.SessionHolder,
	uploader storage.Uploader,
	log *zap.Logger,
) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{
		feed:      svc,
		lifecycle: lc,
		provider:  provider,
		sessions:  sessions,
		uploader:  uploader,
		log:       log,
	}
}

// RegisterRoutes mounts the API under /api/v1
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/signin", h.SignIn)
		auth.POST("/signout", h.AuthMiddleware(), h.SignOut)
		auth.POST("/reset", h.RequestPasswordReset)
		auth.POST("/reset/confirm", h.ConfirmPasswordReset)
	}

	authed := v1.Group("", h.AuthMiddleware())
	{
		authed.GET("/feed", h.GetFeed)
		authed.POST("/posts", h.CreatePost)
		authed.POST("/posts/:id/share", h.SharePost)
		authed.POST("/posts/:id/view", h.ViewPost)
		authed.POST("/posts/:id/flag", h.FlagPost)
		authed.POST("/posts/:id/comments", h.CreateComment)
		authed.GET("/posts/:id/comments", h.GetComments)
		authed.GET("/profile/:id", h.GetProfile)
		authed.PUT("/profile/:id", h.UpdateProfile)
		authed.POST("/uploads", h.UploadAttachment)
	}
}

// respondError maps a service error onto an HTTP response
func (h *Handlers) respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}

	switch {
	case errors.Is(err, identity.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
	case errors.Is(err, identity.ErrUserNotFound),
		errors.Is(err, identity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, identity.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
	case errors.Is(err, identity.ErrResetInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset token"})
	default:
		h.log.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// currentUserID reads the user id the auth middleware stored
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

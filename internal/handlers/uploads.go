package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadBytes caps attachment size at 10 MB
const maxUploadBytes = 10 << 20

// UploadAttachment stores an image and returns its public URL for use in
// a later post's attachments.
func (h *Handlers) UploadAttachment(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds 10MB limit"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	result, err := h.uploader.UploadImage(c.Request.Context(), data, currentUserID(c), header.Filename)
	if err != nil {
		h.log.Warn("Attachment upload rejected",
			zap.String("filename", header.Filename), zap.Error(err))
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key":        result.Key,
		"url":        result.URL,
		"media_type": result.MediaType,
		"size":       result.Size,
	})
}

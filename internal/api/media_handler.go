package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/reptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type MediaHandler struct {
	mediaService service.MediaService
	log          logrus.FieldLogger
}

func NewMediaHandler(mediaService service.MediaService, log logrus.FieldLogger) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, log: log}
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type UploadURLResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RequestUploadURL godoc
// @Summary Get a presigned URL for uploading an image
// @Description The client PUTs the image to uploadUrl with the same Content-Type, then references objectKey.
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UploadURLRequest true "Image content type"
// @Success 200 {object} UploadURLResponse
// @Failure 400 {object} gin.H "Unsupported content type"
// @Router /media/upload-url [post]
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	ticket, err := h.mediaService.ImageUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, UploadURLResponse{UploadURL: ticket.UploadURL, ObjectKey: ticket.ObjectKey, ExpiresAt: ticket.ExpiresAt})
}

func (h *MediaHandler) DownloadURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		abortWithError(c, http.StatusBadRequest, "key is required")
		return
	}
	url, err := h.mediaService.ImageDownloadURL(c.Request.Context(), key)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

func (h *MediaHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	key := c.Query("key")
	if key == "" {
		abortWithError(c, http.StatusBadRequest, "key is required")
		return
	}
	if err := h.mediaService.DeleteImage(c.Request.Context(), userID, key); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type NotificationHandler struct {
	socialService service.SocialService
	log           logrus.FieldLogger
}

func NewNotificationHandler(socialService service.SocialService, log logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{socialService: socialService, log: log}
}

// List returns the caller's notifications, newest first.
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	notifications, err := h.socialService.ListNotifications(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	count, err := h.socialService.UnreadNotificationCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.socialService.MarkNotificationRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.socialService.MarkAllNotificationsRead(c.Request.Context(), userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.socialService.DeleteNotification(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

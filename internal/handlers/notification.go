package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulistar/alumni/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (nh *NotificationHandler) List(c *gin.Context) {
	graduateID, ok := parseGraduateID(c)
	if !ok {
		return
	}
	notifications, err := nh.notificationService.List(c.Request.Context(), graduateID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "LIST_FAILED", err)
		return
	}
	RespondOK(c, gin.H{"notifications": notifications})
}

func (nh *NotificationHandler) CountUnread(c *gin.Context) {
	graduateID, ok := parseGraduateID(c)
	if !ok {
		return
	}
	count, err := nh.notificationService.CountUnread(c.Request.Context(), graduateID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "COUNT_FAILED", err)
		return
	}
	RespondOK(c, gin.H{"unread": count})
}

func (nh *NotificationHandler) MarkRead(c *gin.Context) {
	graduateID, ok := parseGraduateID(c)
	if !ok {
		return
	}
	notificationID, err := uuid.Parse(c.Param("notificationId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_NOTIFICATION_ID", err)
		return
	}
	if err := nh.notificationService.MarkRead(c.Request.Context(), graduateID, notificationID); err != nil {
		RespondError(c, http.StatusInternalServerError, "MARK_READ_FAILED", err)
		return
	}
	RespondOK(c, gin.H{"read": notificationID})
}

func (nh *NotificationHandler) MarkAllRead(c *gin.Context) {
	graduateID, ok := parseGraduateID(c)
	if !ok {
		return
	}
	if err := nh.notificationService.MarkAllRead(c.Request.Context(), graduateID); err != nil {
		RespondError(c, http.StatusInternalServerError, "MARK_ALL_READ_FAILED", err)
		return
	}
	RespondOK(c, gin.H{"read": "all"})
}
